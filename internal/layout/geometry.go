package layout

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Size is a surface size in character cells.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Dim is a length expressed as a percentage of the parent axis plus a fixed
// cell correction.
type Dim struct {
	Percent int `yaml:"percent"`
	Offset  int `yaml:"offset"`
}

// Resolve converts the dim to cells against a parent length.
func (d Dim) Resolve(parent int) int {
	return parent*d.Percent/100 + d.Offset
}

// Rectangle is a pane's placement relative to its parent surface.
type Rectangle struct {
	Top    Dim `yaml:"top"`
	Left   Dim `yaml:"left"`
	Width  Dim `yaml:"width"`
	Height Dim `yaml:"height"`
}

// Bounds is a resolved rectangle in cells.
type Bounds struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Contains reports whether the cell (x, y) lies inside b.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Resolve converts the rectangle to cells. Negative sizes clamp to zero.
func (r Rectangle) Resolve(parent Size) Bounds {
	b := Bounds{
		X:      r.Left.Resolve(parent.Width),
		Y:      r.Top.Resolve(parent.Height),
		Width:  r.Width.Resolve(parent.Width),
		Height: r.Height.Resolve(parent.Height),
	}
	if b.Width < 0 {
		b.Width = 0
	}
	if b.Height < 0 {
		b.Height = 0
	}
	return b
}

// FullSurface returns the rectangle covering the whole parent, inset by the
// first x and y offsets of the config.
func FullSurface(cfg Config) Rectangle {
	x0 := cfg.Offsets.X.At(0)
	y0 := cfg.Offsets.Y.At(0)
	return Rectangle{
		Top:    Dim{Offset: y0},
		Left:   Dim{Offset: x0},
		Width:  Dim{Percent: 100, Offset: -x0},
		Height: Dim{Percent: 100, Offset: -y0},
	}
}

// gutterOffset is the per-side share of a gutter. A one cell gutter is kept
// whole since it cannot be split.
func gutterOffset(g int) int {
	if g <= 0 {
		return 0
	}
	if g == 1 {
		return 1
	}
	return g / 2
}

// ComputeRectangle converts a grid position into a rectangle. Widths round
// up and heights round down so rounding never steals columns but never
// overflows the surface vertically.
func ComputeRectangle(pos Position, cfg Config, parent Size) Rectangle {
	rows, cols := pos.Rows, pos.Cols
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	hg := gutterOffset(cfg.Gutters.Horizontal)
	vg := gutterOffset(cfg.Gutters.Vertical)

	heightOffset := cfg.Offsets.Height.At(pos.Row) - hg
	widthOffset := cfg.Offsets.Width.At(pos.Col) - vg
	yOffset := cfg.Offsets.Y.At(pos.Row)
	xOffset := cfg.Offsets.X.At(pos.Col)
	if pos.Row > 0 {
		yOffset += hg
	}
	if pos.Col > 0 {
		xOffset += vg
	}

	rect := Rectangle{
		Top:  Dim{Percent: pos.Row * 100 / rows, Offset: yOffset},
		Left: Dim{Percent: pos.Col * 100 / cols, Offset: xOffset},
		Width: Dim{
			Percent: (100*pos.ColSpan + cols - 1) / cols,
			Offset:  widthOffset,
		},
		Height: Dim{
			Percent: 100 * pos.RowSpan / rows,
			Offset:  heightOffset,
		},
	}

	if cfg.HeightFn != nil {
		rect.Height = cfg.HeightFn(DimArgs{
			Index:       pos.Row,
			Count:       rows,
			Span:        pos.RowSpan,
			BasePercent: 100 / float64(rows),
			Offset:      heightOffset,
			Parent:      parent.Height,
		})
	}
	if cfg.WidthFn != nil {
		rect.Width = cfg.WidthFn(DimArgs{
			Index:       pos.Col,
			Count:       cols,
			Span:        pos.ColSpan,
			BasePercent: 100 / float64(cols),
			Offset:      widthOffset,
			Parent:      parent.Width,
		})
	}
	return rect
}

// DefaultCacheSize bounds the number of memoized rectangles per calculator.
const DefaultCacheSize = 256

type rectKey struct {
	pos    Position
	parent Size
}

// Calculator memoizes ComputeRectangle for a single config. Build a new
// Calculator whenever the config changes.
type Calculator struct {
	cfg   Config
	cache *lru.Cache[rectKey, Rectangle]
}

// NewCalculator returns a calculator bound to cfg.
func NewCalculator(cfg Config) *Calculator {
	cache, err := lru.New[rectKey, Rectangle](DefaultCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &Calculator{cfg: cfg, cache: cache}
}

// Config returns the config the calculator was built for.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Rectangle returns the memoized rectangle for pos.
func (c *Calculator) Rectangle(pos Position, parent Size) Rectangle {
	// Only custom dim functions depend on the parent size.
	if c.cfg.WidthFn == nil && c.cfg.HeightFn == nil {
		parent = Size{}
	}
	// Page does not affect geometry, so pages share cache entries.
	key := rectKey{pos: pos, parent: parent}
	key.pos.Page = 0
	if r, ok := c.cache.Get(key); ok {
		return r
	}
	r := ComputeRectangle(pos, c.cfg, parent)
	c.cache.Add(key, r)
	return r
}

// Len returns the number of cached rectangles.
func (c *Calculator) Len() int {
	return c.cache.Len()
}

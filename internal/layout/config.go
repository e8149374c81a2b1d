package layout

import (
	"fmt"
	"sort"
)

// Default grid settings, matching the classic 2x2 dashboard.
const (
	DefaultCols    = 2
	DefaultPerPage = 4
)

// Gutters holds the spacing between adjacent cells, in character cells.
type Gutters struct {
	Horizontal int `yaml:"horizontal"`
	Vertical   int `yaml:"vertical"`
}

// Offset is a fixed cell correction that is either a single value applied to
// every row/column, or a list indexed by row/column.
type Offset struct {
	Value    int   `yaml:"value,omitempty"`
	PerIndex []int `yaml:"per_index,omitempty"`
}

// Scalar returns an Offset applied uniformly.
func Scalar(v int) Offset { return Offset{Value: v} }

// Indexed returns an Offset looked up by row or column.
func Indexed(v ...int) Offset { return Offset{PerIndex: v} }

// At returns the offset for index i. Indexes past the end of a list yield 0.
func (o Offset) At(i int) int {
	if len(o.PerIndex) == 0 {
		return o.Value
	}
	if i < 0 || i >= len(o.PerIndex) {
		return 0
	}
	return o.PerIndex[i]
}

// IsZero reports whether the offset contributes nothing.
func (o Offset) IsZero() bool {
	if len(o.PerIndex) == 0 {
		return o.Value == 0
	}
	for _, v := range o.PerIndex {
		if v != 0 {
			return false
		}
	}
	return true
}

// Offsets groups the per-axis corrections. Height and Y are indexed by row,
// Width and X by column.
type Offsets struct {
	Height Offset `yaml:"height"`
	Width  Offset `yaml:"width"`
	X      Offset `yaml:"x"`
	Y      Offset `yaml:"y"`
}

// SpanKind selects how a ColSpanRule shapes its row.
type SpanKind int

const (
	// SpanFixed gives the row a fixed column count; every pane spans one column.
	SpanFixed SpanKind = iota
	// SpanList gives each pane in the row an explicit span.
	SpanList
	// SpanRest sizes the row to the panes still waiting to be placed on the page.
	SpanRest
)

// String returns the config spelling of the kind.
func (k SpanKind) String() string {
	switch k {
	case SpanFixed:
		return "fixed"
	case SpanList:
		return "spans"
	case SpanRest:
		return "rest"
	default:
		return "unknown"
	}
}

// ColSpanRule overrides the column layout of a single row.
type ColSpanRule struct {
	Kind  SpanKind
	Cols  int
	Spans []int
}

// FixedCols returns a rule giving a row n columns.
func FixedCols(n int) ColSpanRule { return ColSpanRule{Kind: SpanFixed, Cols: n} }

// Spans returns a rule assigning explicit spans to the panes of a row.
func Spans(spans ...int) ColSpanRule { return ColSpanRule{Kind: SpanList, Spans: spans} }

// Rest returns a rule that expands the row to hold the remaining panes.
func Rest() ColSpanRule { return ColSpanRule{Kind: SpanRest} }

// width returns the column count the rule gives its row, or 0 for SpanRest.
func (r ColSpanRule) width() int {
	switch r.Kind {
	case SpanFixed:
		return r.Cols
	case SpanList:
		total := 0
		for _, s := range r.Spans {
			total += s
		}
		return total
	default:
		return 0
	}
}

// DimArgs is passed to custom width and height functions.
type DimArgs struct {
	Index       int     // row for heights, column for widths
	Count       int     // rows for heights, columns for widths
	Span        int     // rowSpan or colSpan
	BasePercent float64 // 100 / Count
	Offset      int     // gutter and axis offset already folded together
	Parent      int     // parent size along the axis, in cells
}

// DimFunc fully overrides the computed size along one axis.
type DimFunc func(DimArgs) Dim

// Config describes a grid. A Config is treated as immutable once handed to a
// builder; reconfiguring means building with a new Config.
type Config struct {
	// Rows is the fixed row count, or 0 for ceil(PerPage/Cols).
	Rows    int
	Cols    int
	PerPage int

	Gutters Gutters
	Offsets Offsets

	// ColSpansByRow overrides the column layout of individual rows.
	ColSpansByRow map[int]ColSpanRule

	// PanelGrid replaces Offsets when the config lays out the children of a
	// maximized pane. Nil means reuse Offsets.
	PanelGrid *Offsets

	WidthFn  DimFunc
	HeightFn DimFunc
}

// DefaultConfig returns the 2 column, 4 per page grid with automatic rows.
func DefaultConfig() Config {
	return Config{
		Cols:    DefaultCols,
		PerPage: DefaultPerPage,
	}
}

// RowCount resolves automatic rows.
func (c Config) RowCount() int {
	if c.Rows > 0 {
		return c.Rows
	}
	if c.Cols <= 0 || c.PerPage <= 0 {
		return 0
	}
	return (c.PerPage + c.Cols - 1) / c.Cols
}

// rowWidth returns the column count for row r, or 0 for a SpanRest row.
func (c Config) rowWidth(r int) int {
	if rule, ok := c.ColSpansByRow[r]; ok {
		return rule.width()
	}
	return c.Cols
}

// rowSlots returns how many panes row r holds.
func (c Config) rowSlots(r int) int {
	if rule, ok := c.ColSpansByRow[r]; ok && rule.Kind == SpanList {
		return len(rule.Spans)
	}
	return c.rowWidth(r)
}

// PageCount returns ceil(n/PerPage).
func (c Config) PageCount(n int) int {
	if n <= 0 || c.PerPage <= 0 {
		return 0
	}
	return (n + c.PerPage - 1) / c.PerPage
}

// ConfigError reports an invalid layout configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("layout config: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the config for values no grid can be built from.
func (c Config) Validate() error {
	if c.PerPage < 1 {
		return configErr("per_page", "must be at least 1, got %d", c.PerPage)
	}
	if c.Cols < 1 {
		return configErr("cols", "must be at least 1, got %d", c.Cols)
	}
	if c.Rows < 0 {
		return configErr("rows", "must be 0 (auto) or positive, got %d", c.Rows)
	}
	if c.Gutters.Horizontal < 0 || c.Gutters.Vertical < 0 {
		return configErr("gutters", "must not be negative")
	}

	rows := c.RowCount()

	// Deterministic error order for configs with several bad rows.
	keys := make([]int, 0, len(c.ColSpansByRow))
	for r := range c.ColSpansByRow {
		keys = append(keys, r)
	}
	sort.Ints(keys)

	hasRest := false
	for _, r := range keys {
		rule := c.ColSpansByRow[r]
		field := fmt.Sprintf("col_spans_by_row[%d]", r)
		if r < 0 || r >= rows {
			return configErr(field, "row out of range 0..%d", rows-1)
		}
		switch rule.Kind {
		case SpanFixed:
			if rule.Cols < 1 {
				return configErr(field, "column count must be positive, got %d", rule.Cols)
			}
		case SpanList:
			if len(rule.Spans) == 0 {
				return configErr(field, "span list is empty")
			}
			for _, s := range rule.Spans {
				if s < 1 {
					return configErr(field, "spans must be positive, got %v", rule.Spans)
				}
			}
		case SpanRest:
			hasRest = true
		default:
			return configErr(field, "unknown span kind %d", rule.Kind)
		}
	}

	if !hasRest {
		capacity := 0
		for r := 0; r < rows; r++ {
			capacity += c.rowSlots(r)
		}
		if capacity < c.PerPage {
			return configErr("rows", "%d rows hold %d panes, fewer than per_page %d", rows, capacity, c.PerPage)
		}
	}
	return nil
}

// ForPanelGrid returns the config used to tile a maximized pane's children:
// two rows, the first holding two columns (one when there are exactly two
// children) and the second holding the rest.
func (c Config) ForPanelGrid(children int) Config {
	top, bottom := 2, children-2
	if children == 2 {
		top, bottom = 1, 1
	}
	nested := Config{
		Rows:    2,
		Cols:    top,
		PerPage: children,
		Gutters: c.Gutters,
		Offsets: c.Offsets,
		ColSpansByRow: map[int]ColSpanRule{
			0: FixedCols(top),
			1: FixedCols(bottom),
		},
	}
	if c.PanelGrid != nil {
		nested.Offsets = *c.PanelGrid
	}
	return nested
}

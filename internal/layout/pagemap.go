package layout

import "fmt"

// Position is a pane's logical placement on a page. Rows and Cols are the
// dimensions of the matrix row the pane starts in, which may differ between
// rows when ColSpansByRow is set.
type Position struct {
	Page    int `yaml:"page"`
	Row     int `yaml:"row"`
	Col     int `yaml:"col"`
	RowSpan int `yaml:"row_span"`
	ColSpan int `yaml:"col_span"`
	Rows    int `yaml:"rows"`
	Cols    int `yaml:"cols"`
}

// Page is an occupancy matrix: cell to pane id, "" for an empty cell.
type Page [][]string

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := make(Page, len(p))
	for r, row := range p {
		out[r] = append([]string(nil), row...)
	}
	return out
}

// Placement is the build output for one pane.
type Placement struct {
	ID       string    `yaml:"id"`
	Position Position  `yaml:"position"`
	Rect     Rectangle `yaml:"rect"`
}

// Result is a complete page map for an ordered pane list.
type Result struct {
	Pages []Page
	// Order lists each page's pane ids in placement order.
	Order      [][]string
	Placements map[string]Placement
}

// PageCount returns the number of pages.
func (r *Result) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}

// Placement looks up a pane.
func (r *Result) Placement(id string) (Placement, bool) {
	if r == nil {
		return Placement{}, false
	}
	p, ok := r.Placements[id]
	return p, ok
}

// PageOf returns the page holding id, or -1.
func (r *Result) PageOf(id string) int {
	if p, ok := r.Placement(id); ok {
		return p.Position.Page
	}
	return -1
}

// OnPage returns the pane ids of a page in placement order.
func (r *Result) OnPage(page int) []string {
	if r == nil || page < 0 || page >= len(r.Order) {
		return nil
	}
	return r.Order[page]
}

// First returns the first pane placed on a page, or "".
func (r *Result) First(page int) string {
	ids := r.OnPage(page)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// Build validates cfg and lays out ids. Rectangles are computed against a
// zero parent, which only matters for custom dim functions.
func Build(ids []string, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewCalculator(cfg).Build(ids, Size{})
}

// Build lays out ids on pages of the calculator's config. The config is
// assumed valid. An error means the ids cannot be placed without breaking
// the one-pane-per-cell rule; no partial result is returned.
func (c *Calculator) Build(ids []string, parent Size) (*Result, error) {
	cfg := c.cfg
	res := &Result{Placements: make(map[string]Placement, len(ids))}
	if len(ids) == 0 {
		return res, nil
	}
	if cfg.PerPage < 1 {
		return nil, configErr("per_page", "must be at least 1, got %d", cfg.PerPage)
	}
	rows := cfg.RowCount()

	for start := 0; start < len(ids); start += cfg.PerPage {
		end := start + cfg.PerPage
		if end > len(ids) {
			end = len(ids)
		}
		page := len(res.Pages)
		pb := newPageBuilder(cfg, rows, end-start)

		for k, id := range ids[start:end] {
			if id == "" {
				return nil, fmt.Errorf("layout: pane %d has an empty id", start+k)
			}
			if _, dup := res.Placements[id]; dup {
				return nil, fmt.Errorf("layout: duplicate pane id %q", id)
			}
			pos, err := pb.place(k)
			if err != nil {
				return nil, err
			}
			pos.Page = page
			pb.mark(pos, id)
			res.Placements[id] = Placement{ID: id, Position: pos, Rect: c.Rectangle(pos, parent)}
		}

		res.Pages = append(res.Pages, pb.cells)
		res.Order = append(res.Order, append([]string(nil), ids[start:end]...))
	}
	return res, nil
}

// pageBuilder walks one page's matrix in row-major order.
type pageBuilder struct {
	cfg   Config
	rows  int
	count int
	cells Page
	row   int
	col   int
}

func newPageBuilder(cfg Config, rows, count int) *pageBuilder {
	cells := make(Page, rows)
	for r := range cells {
		// Rest rows stay empty until the walk reaches them.
		cells[r] = make([]string, cfg.rowWidth(r))
	}
	return &pageBuilder{cfg: cfg, rows: rows, count: count, cells: cells}
}

// place finds the next free cell for the k-th pane of the page and resolves
// its spans.
func (pb *pageBuilder) place(k int) (Position, error) {
	var (
		rule    ColSpanRule
		hasRule bool
	)
	for {
		if pb.row >= pb.rows {
			return Position{}, configErr("rows", "pane %d of %d does not fit a %d row page", k+1, pb.count, pb.rows)
		}
		rule, hasRule = pb.cfg.ColSpansByRow[pb.row]
		if hasRule && rule.Kind == SpanRest && len(pb.cells[pb.row]) == 0 {
			pb.cells[pb.row] = make([]string, pb.count-k)
		}
		cells := pb.cells[pb.row]
		if pb.col >= len(cells) {
			pb.row++
			pb.col = 0
			continue
		}
		if cells[pb.col] != "" {
			pb.col++
			continue
		}
		break
	}

	cols := len(pb.cells[pb.row])
	colSpan, rowSpan := 1, 1
	explicit := hasRule && rule.Kind == SpanList
	if explicit {
		colSpan = segmentEnd(rule.Spans, pb.col) - pb.col
	}

	// Widen the tail of the page so no cells are left dangling.
	remaining := pb.count - k
	if remaining == 2 && colSpan == 1 && pb.col+2 == cols && pb.row+1 < pb.rows {
		rowSpan = pb.rows - pb.row
	}
	if remaining == 1 {
		if !hasRule && pb.col+1 < cols {
			colSpan = cols - pb.col
		}
		if rowSpan == 1 && pb.row+1 < pb.rows {
			rowSpan = pb.rows - pb.row
		}
	}

	free := pb.freeRun(pb.row, pb.col, colSpan)
	if free < colSpan {
		if explicit {
			return Position{}, configErr(
				fmt.Sprintf("col_spans_by_row[%d]", pb.row),
				"span at column %d overlaps a pane above", pb.col)
		}
		colSpan = free
	}
	rowSpan = pb.fitRows(pb.row, pb.col, colSpan, rowSpan)

	return Position{
		Row:     pb.row,
		Col:     pb.col,
		RowSpan: rowSpan,
		ColSpan: colSpan,
		Rows:    pb.rows,
		Cols:    cols,
	}, nil
}

// freeRun counts free cells in row r from col, up to want.
func (pb *pageBuilder) freeRun(r, col, want int) int {
	cells := pb.cells[r]
	n := 0
	for n < want && col+n < len(cells) && cells[col+n] == "" {
		n++
	}
	return n
}

// fitRows shrinks a row span until every spanned cell exists and is free.
func (pb *pageBuilder) fitRows(r, col, colSpan, want int) int {
	n := 1
	for n < want && r+n < pb.rows {
		if pb.freeRun(r+n, col, colSpan) < colSpan {
			break
		}
		n++
	}
	return n
}

// mark registers id into every cell pos spans and advances the walk.
func (pb *pageBuilder) mark(pos Position, id string) {
	for y := 0; y < pos.RowSpan; y++ {
		for x := 0; x < pos.ColSpan; x++ {
			pb.cells[pos.Row+y][pos.Col+x] = id
		}
	}
	pb.col = pos.Col + pos.ColSpan
	if pb.col >= pos.Cols {
		pb.row++
		pb.col = 0
	}
}

// segmentEnd returns the column just past the span segment containing col.
func segmentEnd(spans []int, col int) int {
	end := 0
	for _, s := range spans {
		end += s
		if col < end {
			return end
		}
	}
	return end
}

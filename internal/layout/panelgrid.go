package layout

import (
	"errors"
	"sort"
	"strings"
)

// PanelOrder ranks the children of a panel grid.
type PanelOrder struct {
	// Primary is placed first.
	Primary string
	// Priority lists substrings; keys containing an earlier entry sort first.
	Priority []string
}

// DefaultPanelOrder puts the main view first, then metrics, then shells.
func DefaultPanelOrder() PanelOrder {
	return PanelOrder{Primary: "main", Priority: []string{"metrics", "shell"}}
}

func (o PanelOrder) rank(key string) int {
	if o.Primary != "" && key == o.Primary {
		return 0
	}
	for i, p := range o.Priority {
		if p != "" && strings.Contains(key, p) {
			return i + 1
		}
	}
	return len(o.Priority) + 1
}

// Sort returns keys ordered by rank, then by ascending length. Ties keep
// their input order.
func (o PanelOrder) Sort(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := o.rank(out[i]), o.rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return len(out[i]) < len(out[j])
	})
	return out
}

// PanelGrid is the nested two row arrangement of a maximized pane's children.
type PanelGrid struct {
	// Keys holds the children in placement order.
	Keys []string
	// Nav is the navigation matrix. Rows are padded to equal length.
	Nav Page
	// Placements are keyed by child key; rectangles are relative to the
	// maximized pane.
	Placements map[string]Placement
}

// ErrTooFewChildren is returned when a pane has fewer than two children to tile.
var ErrTooFewChildren = errors.New("layout: panel grid needs at least two children")

// BuildPanelGrid tiles keys into the panel grid derived from cfg.
func BuildPanelGrid(keys []string, cfg Config, order PanelOrder, parent Size) (*PanelGrid, error) {
	if len(keys) < 2 {
		return nil, ErrTooFewChildren
	}
	sorted := order.Sort(keys)
	nested := cfg.ForPanelGrid(len(sorted))
	res, err := NewCalculator(nested).Build(sorted, parent)
	if err != nil {
		return nil, err
	}
	return &PanelGrid{
		Keys:       sorted,
		Nav:        rebalance(res.Pages[0], res.Placements),
		Placements: res.Placements,
	}, nil
}

// rebalance collapses each row to its distinct keys, then pads rows shorter
// than the longest by repeating every key evenly and inserting the widest key
// next to itself until the row is long enough.
func rebalance(page Page, placements map[string]Placement) Page {
	rows := make(Page, 0, len(page))
	longest := 0
	for _, cells := range page {
		var row []string
		for _, id := range cells {
			if id != "" && !contains(row, id) {
				row = append(row, id)
			}
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
		if len(row) > longest {
			longest = len(row)
		}
	}

	for i, row := range rows {
		if len(row) == longest {
			continue
		}
		repeat := longest / len(row)
		widest, span := "", 0
		padded := make([]string, 0, longest)
		for _, id := range row {
			if s := placements[id].Position.ColSpan; s > span {
				span = s
				widest = id
			}
			for n := 0; n < repeat; n++ {
				padded = append(padded, id)
			}
		}
		for len(padded) < longest {
			at := indexOf(padded, widest)
			padded = append(padded[:at+1], padded[at:]...)
			padded[at] = widest
		}
		rows[i] = padded
	}
	return rows
}

func contains(ids []string, id string) bool {
	return indexOf(ids, id) >= 0
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

package layout

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDirection_String(t *testing.T) {
	tests := []struct {
		dir      Direction
		expected string
	}{
		{DirUp, "up"},
		{DirDown, "down"},
		{DirLeft, "left"},
		{DirRight, "right"},
		{DirNext, "next"},
		{DirPrev, "prev"},
		{Direction(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.expected {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.expected)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"up", "down", "left", "right", "next", "prev"} {
		d, err := ParseDirection(name)
		if err != nil {
			t.Errorf("ParseDirection(%q) error = %v", name, err)
			continue
		}
		if d.String() != name {
			t.Errorf("ParseDirection(%q) = %v", name, d)
		}
	}

	if d, err := ParseDirection("  Left "); err != nil || d != DirLeft {
		t.Errorf("ParseDirection(\"  Left \") = %v, %v; want left", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(sideways) should fail")
	}
}

func TestMove_Grid(t *testing.T) {
	page := Page{{"A", "B"}, {"C", "D"}}

	tests := []struct {
		from string
		dir  Direction
		want string
	}{
		{"A", DirRight, "B"},
		{"B", DirRight, "C"}, // next row
		{"D", DirRight, "A"}, // wraps to the first pane
		{"C", DirLeft, "B"},  // previous row
		{"A", DirLeft, "D"},  // wraps to the last pane
		{"A", DirDown, "C"},
		{"C", DirDown, "A"}, // wraps to the top
		{"B", DirUp, "D"},   // wraps to the bottom
		{"D", DirUp, "B"},
		{"D", DirNext, "A"},
		{"A", DirPrev, "D"},
		{"B", DirNext, "C"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.dir, tt.from), func(t *testing.T) {
			if got := Move(page, tt.from, tt.dir); got != tt.want {
				t.Errorf("Move(%s, %s) = %q, want %q", tt.dir, tt.from, got, tt.want)
			}
		})
	}
}

func TestMove_Spans(t *testing.T) {
	tests := []struct {
		name string
		page Page
		from string
		dir  Direction
		want string
	}{
		{
			name: "right skips span continuation",
			page: Page{{"A", "A", "B"}, {"C", "D", "E"}},
			from: "A",
			dir:  DirRight,
			want: "B",
		},
		{
			name: "down leaves from the bottom edge",
			page: Page{{"A", "B"}, {"A", "C"}, {"D", "D"}},
			from: "A",
			dir:  DirDown,
			want: "D",
		},
		{
			name: "up from a jagged row searches the right side",
			page: Page{{"A", "B"}, {"C", "D", "E"}},
			from: "E",
			dir:  DirUp,
			want: "B",
		},
		{
			name: "down into an empty cell searches rightward",
			page: Page{{"A", "B", "B"}, {"", "B", "B"}},
			from: "A",
			dir:  DirDown,
			want: "B",
		},
		{
			name: "up past an empty row",
			page: Page{{"A", "B"}, {"", ""}, {"C", "D"}},
			from: "C",
			dir:  DirUp,
			want: "A",
		},
		{
			name: "down on a single full page pane",
			page: Page{{"E", "E"}, {"E", "E"}},
			from: "E",
			dir:  DirDown,
			want: "E",
		},
		{
			name: "right on a single pane stays",
			page: Page{{"E", "E"}, {"E", "E"}},
			from: "E",
			dir:  DirRight,
			want: "E",
		},
		{
			name: "unknown pane gets the first pane",
			page: Page{{"A", "B"}, {"C", "D"}},
			from: "Z",
			dir:  DirLeft,
			want: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Move(tt.page, tt.from, tt.dir); got != tt.want {
				t.Errorf("Move(%s, %s) = %q, want %q", tt.dir, tt.from, got, tt.want)
			}
		})
	}
}

// TestMove_Total checks that every move from every pane of every built page
// lands on a pane of the same page.
func TestMove_Total(t *testing.T) {
	dirs := []Direction{DirUp, DirDown, DirLeft, DirRight, DirNext, DirPrev}
	for _, cols := range []int{1, 2, 3} {
		for n := 1; n <= 9; n++ {
			cfg := Config{Cols: cols, PerPage: 6}
			res, err := Build(ids(n), cfg)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			for p, page := range res.Pages {
				onPage := make(map[string]bool)
				for _, id := range res.Order[p] {
					onPage[id] = true
				}
				for _, from := range res.Order[p] {
					for _, dir := range dirs {
						got := Move(page, from, dir)
						if !onPage[got] {
							t.Errorf("cols=%d n=%d page=%d: Move(%s, %s) = %q, not on page", cols, n, p, dir, from, got)
						}
						if len(res.Order[p]) == 1 && got != from {
							t.Errorf("cols=%d n=%d page=%d: Move(%s, %s) = %q, want %q", cols, n, p, dir, from, got, from)
						}
					}
				}
			}
		}
	}
}

func TestOrdered(t *testing.T) {
	page := Page{{"A", "A", "B"}, {"C", "", "B"}}
	want := []string{"A", "B", "C"}
	if diff := cmp.Diff(want, Ordered(page)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
}

func TestCycle(t *testing.T) {
	ids := []string{"A", "B", "C"}
	tests := []struct {
		current string
		delta   int
		want    string
	}{
		{"A", 1, "B"},
		{"C", 1, "A"},
		{"A", -1, "C"},
		{"B", -4, "A"},
		{"Z", 1, "A"},
	}
	for _, tt := range tests {
		if got := Cycle(ids, tt.current, tt.delta); got != tt.want {
			t.Errorf("Cycle(%s, %d) = %q, want %q", tt.current, tt.delta, got, tt.want)
		}
	}
	if got := Cycle(nil, "A", 1); got != "A" {
		t.Errorf("Cycle(nil) = %q, want A", got)
	}
}

func TestLocate(t *testing.T) {
	page := Page{{"A", "B"}, {"A", "C"}}
	row, col, ok := Locate(page, "A")
	if !ok || row != 0 || col != 0 {
		t.Errorf("Locate(A) = %d,%d,%v; want 0,0,true", row, col, ok)
	}
	row, col, ok = Locate(page, "C")
	if !ok || row != 1 || col != 1 {
		t.Errorf("Locate(C) = %d,%d,%v; want 1,1,true", row, col, ok)
	}
	if _, _, ok := Locate(page, ""); ok {
		t.Error("Locate(\"\") should not match empty cells")
	}
}

package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pos(row, col, rowSpan, colSpan, rows, cols int) Position {
	return Position{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan, Rows: rows, Cols: cols}
}

func TestComputeRectangle(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
		cfg  Config
		want Rectangle
	}{
		{
			name: "top left quarter",
			pos:  pos(0, 0, 1, 1, 2, 2),
			cfg:  DefaultConfig(),
			want: Rectangle{Width: Dim{Percent: 50}, Height: Dim{Percent: 50}},
		},
		{
			name: "bottom right quarter",
			pos:  pos(1, 1, 1, 1, 2, 2),
			cfg:  DefaultConfig(),
			want: Rectangle{
				Top:    Dim{Percent: 50},
				Left:   Dim{Percent: 50},
				Width:  Dim{Percent: 50},
				Height: Dim{Percent: 50},
			},
		},
		{
			name: "thirds round width up and height down",
			pos:  pos(1, 1, 1, 1, 3, 3),
			cfg:  Config{Cols: 3, PerPage: 9},
			want: Rectangle{
				Top:    Dim{Percent: 33},
				Left:   Dim{Percent: 33},
				Width:  Dim{Percent: 34},
				Height: Dim{Percent: 33},
			},
		},
		{
			name: "full page span",
			pos:  pos(0, 0, 2, 2, 2, 2),
			cfg:  DefaultConfig(),
			want: Rectangle{Width: Dim{Percent: 100}, Height: Dim{Percent: 100}},
		},
		{
			name: "gutters on interior edges",
			pos:  pos(1, 1, 1, 1, 2, 2),
			cfg:  Config{Cols: 2, PerPage: 4, Gutters: Gutters{Horizontal: 2, Vertical: 4}},
			want: Rectangle{
				Top:    Dim{Percent: 50, Offset: 1},
				Left:   Dim{Percent: 50, Offset: 2},
				Width:  Dim{Percent: 50, Offset: -2},
				Height: Dim{Percent: 50, Offset: -1},
			},
		},
		{
			name: "gutters shrink outer cells too",
			pos:  pos(0, 0, 1, 1, 2, 2),
			cfg:  Config{Cols: 2, PerPage: 4, Gutters: Gutters{Horizontal: 2, Vertical: 2}},
			want: Rectangle{
				Width:  Dim{Percent: 50, Offset: -1},
				Height: Dim{Percent: 50, Offset: -1},
			},
		},
		{
			name: "one cell gutter stays whole",
			pos:  pos(1, 0, 1, 1, 2, 2),
			cfg:  Config{Cols: 2, PerPage: 4, Gutters: Gutters{Horizontal: 1}},
			want: Rectangle{
				Top:    Dim{Percent: 50, Offset: 1},
				Width:  Dim{Percent: 50},
				Height: Dim{Percent: 50, Offset: -1},
			},
		},
		{
			name: "indexed offsets",
			pos:  pos(1, 0, 1, 1, 2, 2),
			cfg: Config{Cols: 2, PerPage: 4, Offsets: Offsets{
				Height: Indexed(0, -2),
				Width:  Indexed(1),
				Y:      Indexed(1, 3),
				X:      Scalar(1),
			}},
			want: Rectangle{
				Top:    Dim{Percent: 50, Offset: 3},
				Left:   Dim{Offset: 1},
				Width:  Dim{Percent: 50, Offset: 1},
				Height: Dim{Percent: 50, Offset: -2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRectangle(tt.pos, tt.cfg, Size{})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeRectangle mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeRectangle_CustomDims(t *testing.T) {
	var gotArgs DimArgs
	cfg := Config{
		Cols:    2,
		PerPage: 4,
		Gutters: Gutters{Horizontal: 2},
		HeightFn: func(a DimArgs) Dim {
			gotArgs = a
			return Dim{Percent: int(a.BasePercent) * a.Span, Offset: a.Offset - 5}
		},
	}

	rect := ComputeRectangle(pos(0, 1, 2, 1, 2, 2), cfg, Size{Width: 80, Height: 24})

	wantArgs := DimArgs{Index: 0, Count: 2, Span: 2, BasePercent: 50, Offset: -1, Parent: 24}
	if diff := cmp.Diff(wantArgs, gotArgs); diff != "" {
		t.Errorf("HeightFn args mismatch (-want +got):\n%s", diff)
	}
	if want := (Dim{Percent: 100, Offset: -6}); rect.Height != want {
		t.Errorf("Height = %+v, want %+v", rect.Height, want)
	}
	// Width still uses the built-in computation.
	if want := (Dim{Percent: 50}); rect.Width != want {
		t.Errorf("Width = %+v, want %+v", rect.Width, want)
	}
}

func TestRectangle_Resolve(t *testing.T) {
	tests := []struct {
		name   string
		rect   Rectangle
		parent Size
		want   Bounds
	}{
		{
			name: "bottom half with gutter",
			rect: Rectangle{
				Top:    Dim{Percent: 50, Offset: 1},
				Width:  Dim{Percent: 50, Offset: -1},
				Height: Dim{Percent: 50, Offset: -1},
			},
			parent: Size{Width: 80, Height: 24},
			want:   Bounds{X: 0, Y: 13, Width: 39, Height: 11},
		},
		{
			name:   "negative size clamps",
			rect:   Rectangle{Width: Dim{Offset: -3}, Height: Dim{Percent: 10, Offset: -5}},
			parent: Size{Width: 10, Height: 10},
			want:   Bounds{},
		},
		{
			name:   "third of odd width",
			rect:   Rectangle{Left: Dim{Percent: 33}, Width: Dim{Percent: 34}, Height: Dim{Percent: 100}},
			parent: Size{Width: 100, Height: 7},
			want:   Bounds{X: 33, Width: 34, Height: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Resolve(tt.parent); got != tt.want {
				t.Errorf("Resolve(%+v) = %+v, want %+v", tt.parent, got, tt.want)
			}
		})
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{X: 2, Y: 3, Width: 4, Height: 2}
	tests := []struct {
		x, y int
		want bool
	}{
		{2, 3, true},
		{5, 4, true},
		{6, 4, false},
		{5, 5, false},
		{1, 3, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFullSurface(t *testing.T) {
	cfg := Config{Cols: 2, PerPage: 4, Offsets: Offsets{X: Scalar(1), Y: Indexed(2, 9)}}
	want := Rectangle{
		Top:    Dim{Offset: 2},
		Left:   Dim{Offset: 1},
		Width:  Dim{Percent: 100, Offset: -1},
		Height: Dim{Percent: 100, Offset: -2},
	}
	if diff := cmp.Diff(want, FullSurface(cfg)); diff != "" {
		t.Errorf("FullSurface mismatch (-want +got):\n%s", diff)
	}

	b := FullSurface(DefaultConfig()).Resolve(Size{Width: 120, Height: 40})
	if b != (Bounds{Width: 120, Height: 40}) {
		t.Errorf("default full surface = %+v, want whole parent", b)
	}
}

func TestCalculator_Memoizes(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	p := pos(1, 0, 1, 1, 2, 2)
	first := calc.Rectangle(p, Size{Width: 80, Height: 24})

	p.Page = 3
	second := calc.Rectangle(p, Size{Width: 200, Height: 60})

	if first != second {
		t.Errorf("rectangles differ across pages: %+v vs %+v", first, second)
	}
	if calc.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (page and parent should not split the cache)", calc.Len())
	}

	calc.Rectangle(pos(0, 0, 1, 1, 2, 2), Size{})
	if calc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", calc.Len())
	}
}

func TestCalculator_ParentKeyedWithCustomDims(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WidthFn = func(a DimArgs) Dim {
		// Fixed 10 cell width on wide surfaces.
		if a.Parent >= 100 {
			return Dim{Offset: 10}
		}
		return Dim{Percent: 50}
	}
	calc := NewCalculator(cfg)

	p := pos(0, 0, 1, 1, 2, 2)
	narrow := calc.Rectangle(p, Size{Width: 80})
	wide := calc.Rectangle(p, Size{Width: 120})

	if narrow.Width == wide.Width {
		t.Errorf("custom widths should differ by parent, both %+v", narrow.Width)
	}
	if calc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", calc.Len())
	}
}

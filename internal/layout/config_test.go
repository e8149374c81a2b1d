package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOffset_At(t *testing.T) {
	tests := []struct {
		name   string
		offset Offset
		index  int
		want   int
	}{
		{"zero value", Offset{}, 3, 0},
		{"scalar", Scalar(2), 0, 2},
		{"scalar any index", Scalar(-1), 7, -1},
		{"indexed", Indexed(1, 2, 3), 1, 2},
		{"indexed past end", Indexed(1, 2), 5, 0},
		{"indexed negative", Indexed(1, 2), -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.offset.At(tt.index); got != tt.want {
				t.Errorf("At(%d) = %d, want %d", tt.index, got, tt.want)
			}
		})
	}
}

func TestOffset_IsZero(t *testing.T) {
	if !(Offset{}).IsZero() {
		t.Error("zero Offset should be zero")
	}
	if !Indexed(0, 0).IsZero() {
		t.Error("all-zero list should be zero")
	}
	if Indexed(0, 1).IsZero() {
		t.Error("list with a non-zero entry should not be zero")
	}
	if Scalar(1).IsZero() {
		t.Error("Scalar(1) should not be zero")
	}
}

func TestSpanKind_String(t *testing.T) {
	tests := []struct {
		kind     SpanKind
		expected string
	}{
		{SpanFixed, "fixed"},
		{SpanList, "spans"},
		{SpanRest, "rest"},
		{SpanKind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("SpanKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestConfig_RowCount(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"default", DefaultConfig(), 2},
		{"auto rounds up", Config{Cols: 2, PerPage: 5}, 3},
		{"fixed rows", Config{Rows: 4, Cols: 2, PerPage: 4}, 4},
		{"single column", Config{Cols: 1, PerPage: 3}, 3},
		{"invalid cols", Config{Cols: 0, PerPage: 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.RowCount(); got != tt.want {
				t.Errorf("RowCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfig_PageCount(t *testing.T) {
	for perPage := 1; perPage <= 6; perPage++ {
		cfg := Config{Cols: 2, PerPage: perPage}
		for n := 0; n <= 20; n++ {
			want := (n + perPage - 1) / perPage
			if got := cfg.PageCount(n); got != want {
				t.Errorf("PageCount(%d) with per_page %d = %d, want %d", n, perPage, got, want)
			}
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string // empty means valid
	}{
		{"default", DefaultConfig(), ""},
		{"per_page zero", Config{Cols: 2, PerPage: 0}, "per_page"},
		{"cols zero", Config{Cols: 0, PerPage: 4}, "cols"},
		{"negative rows", Config{Rows: -1, Cols: 2, PerPage: 4}, "rows"},
		{"negative gutter", Config{Cols: 2, PerPage: 4, Gutters: Gutters{Horizontal: -1}}, "gutters"},
		{"too few rows", Config{Rows: 1, Cols: 2, PerPage: 4}, "rows"},
		{
			"row out of range",
			Config{Cols: 2, PerPage: 4, ColSpansByRow: map[int]ColSpanRule{5: FixedCols(1)}},
			"col_spans_by_row[5]",
		},
		{
			"fixed zero",
			Config{Cols: 2, PerPage: 4, ColSpansByRow: map[int]ColSpanRule{0: FixedCols(0)}},
			"col_spans_by_row[0]",
		},
		{
			"empty span list",
			Config{Cols: 2, PerPage: 4, ColSpansByRow: map[int]ColSpanRule{1: Spans()}},
			"col_spans_by_row[1]",
		},
		{
			"zero span",
			Config{Cols: 2, PerPage: 4, ColSpansByRow: map[int]ColSpanRule{0: Spans(2, 0)}},
			"col_spans_by_row[0]",
		},
		{
			"first bad row reported",
			Config{Cols: 2, PerPage: 4, ColSpansByRow: map[int]ColSpanRule{1: Spans(), 0: FixedCols(0)}},
			"col_spans_by_row[0]",
		},
		{
			"span list counts panes not cells",
			Config{Cols: 3, PerPage: 5, ColSpansByRow: map[int]ColSpanRule{1: Spans(3)}},
			"rows",
		},
		{
			"explicit spans fit",
			Config{Cols: 3, PerPage: 4, ColSpansByRow: map[int]ColSpanRule{1: Spans(2, 1)}},
			"",
		},
		{
			"rest row skips capacity check",
			Config{Rows: 2, Cols: 2, PerPage: 7, ColSpansByRow: map[int]ColSpanRule{1: Rest()}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (reason: %s)", cerr.Field, tt.wantField, cerr.Reason)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "cols", Reason: "must be at least 1, got 0"}
	want := "layout config: cols: must be at least 1, got 0"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConfig_ForPanelGrid(t *testing.T) {
	base := Config{
		Cols:    2,
		PerPage: 4,
		Gutters: Gutters{Horizontal: 2},
		Offsets: Offsets{Y: Scalar(1)},
	}

	tests := []struct {
		children   int
		wantTop    int
		wantBottom int
	}{
		{2, 1, 1},
		{3, 2, 1},
		{4, 2, 2},
		{6, 2, 4},
	}

	for _, tt := range tests {
		nested := base.ForPanelGrid(tt.children)
		if nested.Rows != 2 || nested.PerPage != tt.children {
			t.Errorf("ForPanelGrid(%d): rows=%d per_page=%d, want 2 and %d",
				tt.children, nested.Rows, nested.PerPage, tt.children)
		}
		wantSpans := map[int]ColSpanRule{0: FixedCols(tt.wantTop), 1: FixedCols(tt.wantBottom)}
		if diff := cmp.Diff(wantSpans, nested.ColSpansByRow); diff != "" {
			t.Errorf("ForPanelGrid(%d) spans mismatch (-want +got):\n%s", tt.children, diff)
		}
		if nested.Gutters != base.Gutters {
			t.Errorf("ForPanelGrid(%d) gutters = %+v, want %+v", tt.children, nested.Gutters, base.Gutters)
		}
		if nested.Offsets.Y.At(0) != 1 {
			t.Errorf("ForPanelGrid(%d) should inherit offsets when PanelGrid is nil", tt.children)
		}
	}

	override := base
	override.PanelGrid = &Offsets{Y: Scalar(3)}
	if got := override.ForPanelGrid(3).Offsets.Y.At(0); got != 3 {
		t.Errorf("PanelGrid override Y = %d, want 3", got)
	}
}

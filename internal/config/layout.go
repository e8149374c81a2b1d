package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/samuelreed/tilegrid/internal/layout"
)

// ToLayout converts the section into a validated layout config.
func (lc LayoutConfig) ToLayout() (layout.Config, error) {
	cfg := layout.Config{
		Rows:    lc.Rows,
		Cols:    lc.Cols,
		PerPage: lc.PerPage,
		Gutters: layout.Gutters{
			Horizontal: lc.Gutters.Horizontal,
			Vertical:   lc.Gutters.Vertical,
		},
	}

	var err error
	if cfg.Offsets, err = lc.Offsets.toLayout("offsets"); err != nil {
		return layout.Config{}, err
	}
	if lc.PanelGrid != nil {
		pg, err := lc.PanelGrid.toLayout("panel_grid")
		if err != nil {
			return layout.Config{}, err
		}
		cfg.PanelGrid = &pg
	}
	if len(lc.ColSpansByRow) > 0 {
		cfg.ColSpansByRow = make(map[int]layout.ColSpanRule, len(lc.ColSpansByRow))
		for key, raw := range lc.ColSpansByRow {
			row, err := strconv.Atoi(key)
			if err != nil {
				return layout.Config{}, &layout.ConfigError{Field: "col_spans_by_row", Reason: fmt.Sprintf("row %q is not a number", key)}
			}
			rule, err := parseColSpanRule(raw)
			if err != nil {
				return layout.Config{}, &layout.ConfigError{Field: fmt.Sprintf("col_spans_by_row.%d", row), Reason: err.Error()}
			}
			cfg.ColSpansByRow[row] = rule
		}
	}

	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

func (oc OffsetsConfig) toLayout(prefix string) (layout.Offsets, error) {
	var out layout.Offsets
	for _, f := range []struct {
		name string
		raw  any
		dst  *layout.Offset
	}{
		{"height", oc.Height, &out.Height},
		{"width", oc.Width, &out.Width},
		{"x", oc.X, &out.X},
		{"y", oc.Y, &out.Y},
	} {
		o, err := parseOffset(f.raw)
		if err != nil {
			return layout.Offsets{}, &layout.ConfigError{Field: prefix + "." + f.name, Reason: err.Error()}
		}
		*f.dst = o
	}
	return out, nil
}

// parseOffset accepts a number for a uniform offset or a list for a per
// row or per column one.
func parseOffset(raw any) (layout.Offset, error) {
	if raw == nil {
		return layout.Offset{}, nil
	}
	if list, ok := asList(raw); ok {
		vals, err := ints(list)
		if err != nil {
			return layout.Offset{}, err
		}
		return layout.Indexed(vals...), nil
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return layout.Offset{}, fmt.Errorf("want a number or a list, got %v", raw)
	}
	return layout.Scalar(v), nil
}

// parseColSpanRule accepts a column count, a list of spans, or "rest".
func parseColSpanRule(raw any) (layout.ColSpanRule, error) {
	if s, ok := raw.(string); ok && strings.EqualFold(strings.TrimSpace(s), "rest") {
		return layout.Rest(), nil
	}
	if list, ok := asList(raw); ok {
		spans, err := ints(list)
		if err != nil {
			return layout.ColSpanRule{}, err
		}
		return layout.Spans(spans...), nil
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return layout.ColSpanRule{}, fmt.Errorf(`want a column count, a list of spans or "rest", got %v`, raw)
	}
	return layout.FixedCols(n), nil
}

func asList(raw any) ([]any, bool) {
	switch l := raw.(type) {
	case []any:
		return l, true
	case []int:
		out := make([]any, len(l))
		for i, v := range l {
			out[i] = v
		}
		return out, true
	}
	return nil, false
}

func ints(list []any) ([]int, error) {
	out := make([]int, len(list))
	for i, item := range list {
		v, err := cast.ToIntE(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %v is not a number", i, item)
		}
		out[i] = v
	}
	return out, nil
}

// FromLayout renders a layout config back into its file form.
func FromLayout(cfg layout.Config) LayoutConfig {
	lc := LayoutConfig{
		Rows:    cfg.Rows,
		Cols:    cfg.Cols,
		PerPage: cfg.PerPage,
		Gutters: GuttersConfig{Horizontal: cfg.Gutters.Horizontal, Vertical: cfg.Gutters.Vertical},
		Offsets: fromOffsets(cfg.Offsets),
	}
	if cfg.PanelGrid != nil {
		pg := fromOffsets(*cfg.PanelGrid)
		lc.PanelGrid = &pg
	}
	if len(cfg.ColSpansByRow) > 0 {
		rows := make([]int, 0, len(cfg.ColSpansByRow))
		for r := range cfg.ColSpansByRow {
			rows = append(rows, r)
		}
		sort.Ints(rows)
		lc.ColSpansByRow = make(map[string]any, len(rows))
		for _, r := range rows {
			rule := cfg.ColSpansByRow[r]
			var v any
			switch rule.Kind {
			case layout.SpanRest:
				v = "rest"
			case layout.SpanList:
				v = rule.Spans
			default:
				v = rule.Cols
			}
			lc.ColSpansByRow[strconv.Itoa(r)] = v
		}
	}
	return lc
}

func fromOffsets(o layout.Offsets) OffsetsConfig {
	conv := func(off layout.Offset) any {
		if off.IsZero() {
			return nil
		}
		if len(off.PerIndex) > 0 {
			return off.PerIndex
		}
		return off.Value
	}
	return OffsetsConfig{Height: conv(o.Height), Width: conv(o.Width), X: conv(o.X), Y: conv(o.Y)}
}

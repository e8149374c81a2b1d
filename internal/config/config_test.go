package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelreed/tilegrid/internal/layout"
	"github.com/samuelreed/tilegrid/internal/wm"
)

// isolate points the config search at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)
	return dir
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "tilegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	l := NewLoader("", nil)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "", l.File())
	assert.Equal(t, layout.DefaultCols, cfg.Layout.Cols)
	assert.Equal(t, layout.DefaultPerPage, cfg.Layout.PerPage)
	assert.Equal(t, wm.DefaultPacing(), cfg.Pacing())
	assert.Equal(t, layout.DefaultPanelOrder(), cfg.PanelOrder())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 200, cfg.Docker.Tail)
	assert.True(t, cfg.Docker.Panels)
	assert.Equal(t, 6, cfg.Demo.Panes)
	assert.Same(t, cfg, l.Current())

	lc, err := cfg.Layout.ToLayout()
	require.NoError(t, err)
	assert.Equal(t, layout.DefaultConfig(), lc)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("layout:\n  cols: 3\n  per_page: 6\n"), 0o644))

	l := NewLoader("", nil)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Layout.Cols)
	assert.Contains(t, l.File(), "config.yaml")
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
layout:
  cols: 3
  per_page: 5
  gutters:
    horizontal: 1
    vertical: 2
  offsets:
    height: -1
    width: [2, 0, 1]
  col_spans_by_row:
    "0": [2, 1]
    "1": rest
  panel_grid:
    y: 1
timing:
  resize_debounce: 50ms
  focus_throttle: 0s
  activation_stagger: 0s
panel:
  primary: logs
  priority: [cpu]
log:
  level: debug
docker:
  project: shop
  tail: -1
  stats_interval: 1s
`)

	cfg, err := NewLoader(path, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, wm.Pacing{
		ResizeDebounce: 50 * time.Millisecond,
		FocusThrottle:  0,
		PageThrottle:   wm.DefaultPageThrottle,
	}, cfg.Pacing())
	assert.Equal(t, time.Duration(0), cfg.Timing.ActivationStagger)
	assert.Equal(t, layout.PanelOrder{Primary: "logs", Priority: []string{"cpu"}}, cfg.PanelOrder())
	assert.Equal(t, "shop", cfg.Docker.Project)
	assert.Equal(t, -1, cfg.Docker.Tail)
	assert.Equal(t, time.Second, cfg.Docker.StatsInterval)

	lc, err := cfg.Layout.ToLayout()
	require.NoError(t, err)
	assert.Equal(t, 3, lc.Cols)
	assert.Equal(t, 5, lc.PerPage)
	assert.Equal(t, layout.Gutters{Horizontal: 1, Vertical: 2}, lc.Gutters)
	assert.Equal(t, layout.Scalar(-1), lc.Offsets.Height)
	assert.Equal(t, layout.Indexed(2, 0, 1), lc.Offsets.Width)
	assert.Equal(t, map[int]layout.ColSpanRule{0: layout.Spans(2, 1), 1: layout.Rest()}, lc.ColSpansByRow)
	require.NotNil(t, lc.PanelGrid)
	assert.Equal(t, layout.Scalar(1), lc.PanelGrid.Y)
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("TILEGRID_LAYOUT_COLS", "4")
	t.Setenv("TILEGRID_LAYOUT_PER_PAGE", "8")
	t.Setenv("TILEGRID_DOCKER_PROJECT", "blog")

	cfg, err := NewLoader("", nil).Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Layout.Cols)
	assert.Equal(t, 8, cfg.Layout.PerPage)
	assert.Equal(t, "blog", cfg.Docker.Project)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "zero cols", body: "layout:\n  cols: 0\n", wantField: "cols"},
		{name: "bad offset", body: "layout:\n  offsets:\n    width: wide\n", wantField: "offsets.width"},
		{name: "bad offset item", body: "layout:\n  offsets:\n    x: [1, z]\n", wantField: "offsets.x"},
		{name: "bad row key", body: "layout:\n  col_spans_by_row:\n    first: 2\n", wantField: "col_spans_by_row"},
		{name: "bad span rule", body: "layout:\n  col_spans_by_row:\n    \"0\": most\n", wantField: "col_spans_by_row.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			_, err := NewLoader(writeConfig(t, dir, tt.body), nil).Load()
			var cfgErr *layout.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestLoad_BadLevel(t *testing.T) {
	dir := isolate(t)
	_, err := NewLoader(writeConfig(t, dir, "log:\n  level: loud\n"), nil).Load()
	assert.ErrorContains(t, err, "log.level")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := NewLoader(filepath.Join(dir, "nope.yaml"), nil).Load()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestFromLayout_RoundTrip(t *testing.T) {
	pg := layout.Offsets{Y: layout.Scalar(1)}
	cfg := layout.Config{
		Rows:    2,
		Cols:    3,
		PerPage: 5,
		Gutters: layout.Gutters{Horizontal: 1},
		Offsets: layout.Offsets{Width: layout.Indexed(1, 0, 2), Height: layout.Scalar(-1)},
		ColSpansByRow: map[int]layout.ColSpanRule{
			0: layout.FixedCols(2),
			1: layout.Rest(),
		},
		PanelGrid: &pg,
	}

	got, err := FromLayout(cfg).ToLayout()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestWatch_Reload(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "layout:\n  cols: 2\n")

	l := NewLoader(path, nil)
	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan *Config, 4)
	l.Watch(func(c *Config) { changed <- c })

	require.NoError(t, os.WriteFile(path, []byte("layout:\n  cols: 3\n  per_page: 6\n"), 0o644))
	select {
	case c := <-changed:
		assert.Equal(t, 3, c.Layout.Cols)
		assert.Same(t, c, l.Current())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file changed")
	}
}

func TestReload_KeepsCurrentOnError(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "layout:\n  cols: 2\n")

	l := NewLoader(path, nil)
	cfg, err := l.Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("layout:\n  cols: -1\n"), 0o644))
	require.NoError(t, l.v.ReadInConfig())
	_, err = l.reload()

	var cfgErr *layout.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Same(t, cfg, l.Current())
}

func TestWatch_WithoutFile(t *testing.T) {
	isolate(t)
	l := NewLoader("", nil)
	_, err := l.Load()
	require.NoError(t, err)

	l.Watch(func(*Config) { t.Error("no file to watch") })
	assert.False(t, l.watching)
}

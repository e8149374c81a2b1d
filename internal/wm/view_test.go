package wm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelreed/tilegrid/internal/layout"
)

// fakeView records every capability call made on it.
type fakeView struct {
	key       string
	calls     []string
	bounds    layout.Bounds
	shown     bool
	focused   bool
	destroyed bool
	kids      []View

	activateErr error
	onResize    func(layout.Bounds)
}

func newFakeView(key string) *fakeView { return &fakeView{key: key} }

func (v *fakeView) Key() string { return v.key }

func (v *fakeView) Show() {
	v.shown = true
	v.calls = append(v.calls, "show")
}

func (v *fakeView) Hide() {
	v.shown = false
	v.calls = append(v.calls, "hide")
}

func (v *fakeView) Focus() {
	v.focused = true
	v.calls = append(v.calls, "focus")
}

func (v *fakeView) Blur() {
	v.focused = false
	v.calls = append(v.calls, "blur")
}

func (v *fakeView) Resize(b layout.Bounds) {
	v.bounds = b
	v.calls = append(v.calls, fmt.Sprintf("resize %dx%d+%d+%d", b.Width, b.Height, b.X, b.Y))
	if v.onResize != nil {
		v.onResize(b)
	}
}

func (v *fakeView) Activate(ctx context.Context) error {
	v.calls = append(v.calls, "activate")
	return v.activateErr
}

func (v *fakeView) Destroy() {
	v.destroyed = true
	v.calls = append(v.calls, "destroy")
}

func (v *fakeView) Children() []View { return v.kids }

// bareView implements no capabilities at all.
type bareView struct{}

var testSurface = layout.Size{Width: 80, Height: 24}

// newTestManager returns a manager whose pane ids are A, B, C, ...
func newTestManager(t *testing.T, cfg layout.Config) *Manager {
	t.Helper()
	n := 0
	m, err := New(cfg,
		WithSurface(testSurface),
		WithIDFunc(func() string {
			id := string(rune('A' + n))
			n++
			return id
		}),
	)
	require.NoError(t, err)
	return m
}

// addViews adds n fake views, activates them and returns them by id.
func addViews(t *testing.T, m *Manager, n int) map[string]*fakeView {
	t.Helper()
	views := make(map[string]*fakeView, n)
	for i := 0; i < n; i++ {
		v := newFakeView(fmt.Sprintf("pane-%d", i))
		id, err := m.AddPane(v, Hints{})
		require.NoError(t, err)
		views[id] = v
	}
	activateAll(t, m)
	return views
}

func activateAll(t *testing.T, m *Manager) {
	t.Helper()
	for _, id := range m.Pending() {
		activate, err := m.ActivationFor(id)
		require.NoError(t, err)
		require.NoError(t, m.MarkActivated(id, activate(context.Background())))
	}
}

// recorder collects notifications.
type recorder struct {
	got []Notification
}

func record(m *Manager) *recorder {
	r := &recorder{}
	m.Subscribe(func(n Notification) { r.got = append(r.got, n) })
	return r
}

func (r *recorder) kinds(filter ...NotificationKind) []NotificationKind {
	var out []NotificationKind
	for _, n := range r.got {
		if len(filter) == 0 {
			out = append(out, n.Kind)
			continue
		}
		for _, f := range filter {
			if n.Kind == f {
				out = append(out, n.Kind)
			}
		}
	}
	return out
}

func mustPane(t *testing.T, m *Manager, id string) PaneInfo {
	t.Helper()
	p, ok := m.Pane(id)
	require.True(t, ok, "pane %s not found", id)
	return p
}

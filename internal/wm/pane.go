package wm

import (
	"context"
	"fmt"

	"github.com/samuelreed/tilegrid/internal/layout"
)

// View is the content hosted by a pane. The manager never inspects it; it
// only calls the capability interfaces below that the view implements.
type View any

// Capability interfaces a View may implement. A missing capability is a no-op.
type (
	Shower interface{ Show() }
	Hider  interface{ Hide() }

	Focuser interface{ Focus() }
	Blurrer interface{ Blur() }

	// Resizer receives the view's bounds in cells, relative to its parent.
	Resizer interface{ Resize(layout.Bounds) }

	// Activator is called once, off the event loop, after the pane is added.
	Activator interface {
		Activate(ctx context.Context) error
	}

	Destroyer interface{ Destroy() }

	// Keyer names a view. Pane keys drive panel grid ordering and titles.
	Keyer interface{ Key() string }

	// Container exposes child views that can be tiled into a panel grid
	// while the pane is maximized.
	Container interface{ Children() []View }
)

// capabilities is a view's capability set, resolved once at registration.
type capabilities struct {
	show     func()
	hide     func()
	focus    func()
	blur     func()
	resize   func(layout.Bounds)
	activate func(context.Context) error
	destroy  func()
	children func() []View
}

func noop() {}

func resolve(v View) capabilities {
	c := capabilities{
		show:     noop,
		hide:     noop,
		focus:    noop,
		blur:     noop,
		resize:   func(layout.Bounds) {},
		activate: func(context.Context) error { return nil },
		destroy:  noop,
		children: func() []View { return nil },
	}
	if s, ok := v.(Shower); ok {
		c.show = s.Show
	}
	if h, ok := v.(Hider); ok {
		c.hide = h.Hide
	}
	if f, ok := v.(Focuser); ok {
		c.focus = f.Focus
	}
	if b, ok := v.(Blurrer); ok {
		c.blur = b.Blur
	}
	if r, ok := v.(Resizer); ok {
		c.resize = r.Resize
	}
	if a, ok := v.(Activator); ok {
		c.activate = a.Activate
	}
	if d, ok := v.(Destroyer); ok {
		c.destroy = d.Destroy
	}
	if ct, ok := v.(Container); ok {
		c.children = ct.Children
	}
	return c
}

// keyOf returns the view's key, or fallback when it has none.
func keyOf(v View, fallback string) string {
	if k, ok := v.(Keyer); ok && k.Key() != "" {
		return k.Key()
	}
	return fallback
}

// State is a pane's lifecycle state.
type State int

const (
	Tiled State = iota
	Maximized
	MaximizedGrid
)

// String returns a display name for the state.
func (s State) String() string {
	switch s {
	case Tiled:
		return "tiled"
	case Maximized:
		return "maximized"
	case MaximizedGrid:
		return "maximized-grid"
	default:
		return "unknown"
	}
}

// Hints carry placement hints for AddPane.
type Hints struct {
	// Key names the pane. Defaults to the view's Key, then to a short id.
	Key string
}

// Pane is the manager's record of one tiled view.
type Pane struct {
	id   string
	key  string
	view View
	caps capabilities

	pos    layout.Position
	rect   layout.Rectangle
	bounds layout.Bounds
	state  State
	// saved is the grid rectangle to restore on minimize.
	saved *layout.Rectangle

	visible   bool
	settled   bool // show/hide and resize delivered at least once
	activated bool
	focused   bool // focus delivered to the view

	panel *panel
}

// ID returns the pane's id.
func (p *Pane) ID() string { return p.id }

// Key returns the pane's key.
func (p *Pane) Key() string { return p.key }

// View returns the hosted view.
func (p *Pane) View() View { return p.view }

// panel is the nested arrangement of a MaximizedGrid pane's children.
type panel struct {
	grid     *layout.PanelGrid
	keys     []string
	children map[string]*child
	active   string
}

type child struct {
	key    string
	caps   capabilities
	bounds layout.Bounds
	sized  bool
}

// childViews resolves a pane's children keyed by their view keys.
func childViews(p *Pane) ([]string, map[string]*child) {
	views := p.caps.children()
	keys := make([]string, 0, len(views))
	children := make(map[string]*child, len(views))
	for i, v := range views {
		key := keyOf(v, fmt.Sprintf("child-%d", i))
		if _, dup := children[key]; dup {
			key = fmt.Sprintf("%s-%d", key, i)
		}
		keys = append(keys, key)
		children[key] = &child{key: key, caps: resolve(v)}
	}
	return keys, children
}

// PaneInfo is a read-only snapshot of a pane.
type PaneInfo struct {
	ID          string
	Key         string
	Position    layout.Position
	Rect        layout.Rectangle
	Bounds      layout.Bounds
	Visible     bool
	State       State
	Activated   bool
	Focused     bool
	HasSaved    bool
	ActiveChild string
}

func (p *Pane) info(focused string) PaneInfo {
	pi := PaneInfo{
		ID:        p.id,
		Key:       p.key,
		Position:  p.pos,
		Rect:      p.rect,
		Bounds:    p.bounds,
		Visible:   p.visible,
		State:     p.state,
		Activated: p.activated,
		Focused:   p.id == focused,
		HasSaved:  p.saved != nil,
	}
	if p.panel != nil {
		pi.ActiveChild = p.panel.active
	}
	return pi
}

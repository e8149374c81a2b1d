package wm

import (
	"errors"
	"slices"

	"github.com/samuelreed/tilegrid/internal/layout"
)

// Maximize gives pane id the full surface. With asPanelGrid set and a view
// exposing at least two children, the children are tiled into a panel grid
// inside the pane. Calls made while another maximize or minimize is running
// are ignored, as are calls that would not change the pane's state.
func (m *Manager) Maximize(id string, asPanelGrid bool) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	if m.busy {
		m.log.Debug("maximize ignored, lifecycle busy", "id", id)
		return nil
	}
	m.busy = true
	defer func() { m.busy = false }()

	want := Maximized
	var grid *layout.PanelGrid
	var keys []string
	var children map[string]*child
	if asPanelGrid {
		keys, children = childViews(p)
		if len(keys) >= 2 {
			want = MaximizedGrid
			parent := layout.FullSurface(m.cfg).Resolve(m.surface)
			grid, err = layout.BuildPanelGrid(keys, m.cfg, m.order, layout.Size{Width: parent.Width, Height: parent.Height})
			if err != nil {
				return err
			}
		}
	}
	if p.state == want {
		return nil
	}

	// Maximized and MaximizedGrid only change through Tiled.
	if p.state != Tiled {
		m.minimize(p)
	}
	if other, ok := m.panes[m.maximized]; ok && other != p {
		m.minimize(other)
	}
	if p.pos.Page != m.page {
		m.changePage(p.pos.Page)
	}

	saved := p.rect
	p.saved = &saved
	p.state = want
	p.rect = layout.FullSurface(m.cfg)
	m.maximized = id
	if grid != nil {
		p.panel = &panel{
			grid:     grid,
			keys:     sortedCopy(keys),
			children: children,
			active:   grid.Keys[0],
		}
	}

	m.applyLayout()
	m.setFocus(id)
	if p.panel != nil {
		for key, c := range p.panel.children {
			if key == p.panel.active {
				c.caps.focus()
			} else {
				c.caps.blur()
			}
		}
	}

	m.log.Info("pane maximized", "id", id, "key", p.key, "state", want.String())
	m.emit(Notification{Kind: PaneMaximized, PaneID: id, Page: p.pos.Page})
	return nil
}

// Minimize returns a maximized pane to its grid rectangle. Minimizing a
// tiled pane is a no-op.
func (m *Manager) Minimize(id string) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	if m.busy {
		m.log.Debug("minimize ignored, lifecycle busy", "id", id)
		return nil
	}
	if p.state == Tiled {
		return nil
	}
	m.busy = true
	defer func() { m.busy = false }()

	m.minimize(p)
	return nil
}

// ToggleMaximize maximizes the focused pane, or minimizes the maximized one.
func (m *Manager) ToggleMaximize(asPanelGrid bool) error {
	if m.maximized != "" {
		return m.Minimize(m.maximized)
	}
	if m.focused == "" {
		return nil
	}
	return m.Maximize(m.focused, asPanelGrid)
}

func (m *Manager) minimize(p *Pane) {
	if p.saved != nil {
		p.rect = *p.saved
	}
	p.saved = nil
	p.state = Tiled
	if m.maximized == p.id {
		m.maximized = ""
	}

	m.applyLayout()
	if p.panel != nil {
		m.untile(p)
		p.panel = nil
	}

	// The page may have changed while the pane was maximized.
	if p.pos.Page != m.page {
		target := m.focus[m.page]
		if target == "" {
			target = m.result.First(m.page)
		}
		m.setFocus(target)
	}

	m.log.Info("pane minimized", "id", p.id, "key", p.key)
	m.emit(Notification{Kind: PaneMinimized, PaneID: p.id, Page: p.pos.Page})
}

// layoutPanel resolves the children of a MaximizedGrid pane against the
// pane's bounds. The nested grid is rebuilt only when the child set changed.
func (m *Manager) layoutPanel(p *Pane) {
	pn := p.panel
	if pn == nil {
		return
	}

	keys, children := childViews(p)
	if !slices.Equal(sortedCopy(keys), pn.keys) {
		grid, err := layout.BuildPanelGrid(keys, m.cfg, m.order, layout.Size{Width: p.bounds.Width, Height: p.bounds.Height})
		switch {
		case errors.Is(err, layout.ErrTooFewChildren):
			// Not enough children left to tile; show the active one whole.
			m.log.Debug("panel grid collapsed", "id", p.id, "children", len(keys))
			pn.children = children
			m.untile(p)
			p.panel = nil
			p.state = Maximized
			return
		case err != nil:
			m.log.Warn("panel grid rebuild failed", "id", p.id, "error", err)
			return
		}
		pn.grid = grid
		pn.keys = sortedCopy(keys)
		for key, c := range pn.children {
			if n, ok := children[key]; ok {
				n.bounds, n.sized = c.bounds, c.sized
			}
		}
		pn.children = children
		if _, ok := children[pn.active]; !ok {
			pn.active = grid.Keys[0]
		}
	}

	parent := layout.Size{Width: p.bounds.Width, Height: p.bounds.Height}
	for _, key := range pn.grid.Keys {
		c := pn.children[key]
		b := pn.grid.Placements[key].Rect.Resolve(parent)
		if b != c.bounds || !c.sized {
			c.bounds = b
			c.sized = true
			c.caps.resize(b)
		}
		c.caps.show()
	}
}

// untile gives every child the whole pane again, keeping only the active
// child visible.
func (m *Manager) untile(p *Pane) {
	pn := p.panel
	full := layout.Bounds{Width: p.bounds.Width, Height: p.bounds.Height}
	for key, c := range pn.children {
		c.bounds = full
		c.caps.resize(full)
		if key == pn.active {
			c.caps.show()
		} else {
			c.caps.hide()
		}
	}
}

func sortedCopy(keys []string) []string {
	out := slices.Clone(keys)
	slices.Sort(out)
	return out
}

package wm

import (
	"github.com/samuelreed/tilegrid/internal/layout"
)

// FocusDirection moves focus in dir on the current page. While a pane is
// maximized the move picks the neighbouring pane and maximizes it instead;
// while a panel grid is tiled the move walks its children. A move with no
// target leaves focus unchanged.
func (m *Manager) FocusDirection(dir layout.Direction) error {
	if len(m.ids) == 0 {
		return nil
	}

	if p, ok := m.panes[m.maximized]; ok {
		if p.state == MaximizedGrid && p.panel != nil {
			m.focusChild(p, layout.Move(p.panel.grid.Nav, p.panel.active, dir))
			return nil
		}
		target := layout.Move(m.result.Pages[p.pos.Page], p.id, dir)
		if target == p.id {
			return nil
		}
		return m.Maximize(target, false)
	}

	page := m.result.Pages[m.page]
	target := layout.Move(page, m.focused, dir)
	if target != "" && target != m.focused {
		m.setFocus(target)
	}
	return nil
}

// Focus moves focus to id, switching page when needed.
func (m *Manager) Focus(id string) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	if m.maximized != "" && m.maximized != id {
		return m.Maximize(id, false)
	}
	if p.pos.Page != m.page {
		m.focus[p.pos.Page] = id
		m.changePage(p.pos.Page)
		return nil
	}
	m.setFocus(id)
	return nil
}

// setFocus records id as focused and delivers focus to its view once the
// view has been activated.
func (m *Manager) setFocus(id string) {
	if id == m.focused {
		return
	}
	if old, ok := m.panes[m.focused]; ok && old.focused {
		old.focused = false
		old.caps.blur()
	}
	m.focused = id

	p, ok := m.panes[id]
	if !ok {
		return
	}
	m.focus[p.pos.Page] = id
	if p.activated {
		p.focused = true
		p.caps.focus()
	}
	m.emit(Notification{Kind: FocusChanged, PaneID: id, Page: p.pos.Page})
}

func (m *Manager) focusChild(p *Pane, key string) {
	pn := p.panel
	if key == "" || key == pn.active {
		return
	}
	if c, ok := pn.children[pn.active]; ok {
		c.caps.blur()
	}
	pn.active = key
	pn.children[key].caps.focus()
	m.emit(Notification{Kind: ChildFocusChanged, PaneID: p.id, Page: p.pos.Page, Child: key})
}

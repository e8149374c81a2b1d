package wm

import "fmt"

// ShowPage switches to page n. Switching to the current page is a no-op.
// While a pane is maximized it stays the only visible pane and keeps focus;
// the page switch still updates which page minimize returns to.
func (m *Manager) ShowPage(n int) error {
	if n < 0 || n >= m.PageCount() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, m.PageCount())
	}
	if n == m.page {
		return nil
	}
	m.changePage(n)
	return nil
}

// NextPage moves one page forward, wrapping to the first page.
func (m *Manager) NextPage() error { return m.stepPage(1) }

// PrevPage moves one page back, wrapping to the last page.
func (m *Manager) PrevPage() error { return m.stepPage(-1) }

func (m *Manager) stepPage(delta int) error {
	count := m.PageCount()
	if count <= 1 {
		return nil
	}
	return m.ShowPage(((m.page+delta)%count + count) % count)
}

func (m *Manager) changePage(n int) {
	m.page = n
	m.applyVisibility()

	target := m.focus[n]
	if p, ok := m.panes[target]; !ok || p.pos.Page != n {
		target = m.result.First(n)
		m.focus[n] = target
	}
	if m.maximized == "" {
		m.setFocus(target)
	}

	m.log.Debug("page changed", "page", n, "pages", m.PageCount())
	m.emit(Notification{Kind: PageChanged, Page: n})
}

// shouldShow reports whether p is visible under the current page and
// maximize state.
func (m *Manager) shouldShow(p *Pane) bool {
	if m.maximized != "" {
		return p.id == m.maximized
	}
	return p.pos.Page == m.page
}

// applyVisibility shows and hides panes to match the current page and the
// maximize state.
func (m *Manager) applyVisibility() {
	for _, id := range m.ids {
		p := m.panes[id]
		want := m.shouldShow(p)
		if want == p.visible && p.settled {
			continue
		}
		p.visible = want
		p.settled = true
		if want {
			p.caps.show()
		} else {
			p.caps.hide()
		}
	}
}

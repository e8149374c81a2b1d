// Package wm is the window manager: it owns the pane list, the page map, the
// per-page focus table and the maximize lifecycle, and drives pane views
// through their capability interfaces.
//
// A Manager is not safe for concurrent use. All calls must come from the one
// event loop that owns it; work that blocks (view activation) runs elsewhere
// and reports back through MarkActivated.
package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/samuelreed/tilegrid/internal/layout"
)

var (
	// ErrPaneNotFound is returned for operations on an unknown pane id.
	ErrPaneNotFound = errors.New("pane not found")
	// ErrPageOutOfRange is returned by ShowPage for a page that does not exist.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithSurface sets the initial display surface size.
func WithSurface(size layout.Size) Option {
	return func(m *Manager) { m.surface = size }
}

// WithPanelOrder sets how panel grid children are ranked.
func WithPanelOrder(o layout.PanelOrder) Option {
	return func(m *Manager) { m.order = o }
}

// WithIDFunc replaces the pane id generator.
func WithIDFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// Manager is the window manager aggregate.
type Manager struct {
	cfg     layout.Config
	calc    *layout.Calculator
	order   layout.PanelOrder
	surface layout.Size

	panes  map[string]*Pane
	ids    []string
	result *layout.Result

	page      int
	focus     map[int]string // page -> remembered pane
	focused   string
	maximized string

	// busy is set while a maximize or minimize is in progress.
	busy bool

	subs    []subscriber
	nextSub int

	log   *slog.Logger
	newID func() string
}

// New returns a manager for cfg. An invalid cfg yields a *layout.ConfigError.
func New(cfg layout.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:    cfg,
		calc:   layout.NewCalculator(cfg),
		order:  layout.DefaultPanelOrder(),
		panes:  make(map[string]*Pane),
		result: &layout.Result{Placements: map[string]layout.Placement{}},
		focus:  make(map[int]string),
		log:    slog.New(slog.DiscardHandler),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the active layout config.
func (m *Manager) Config() layout.Config { return m.cfg }

// Surface returns the display surface size.
func (m *Manager) Surface() layout.Size { return m.surface }

// Len returns the number of panes.
func (m *Manager) Len() int { return len(m.ids) }

// IDs returns pane ids in placement order.
func (m *Manager) IDs() []string { return slices.Clone(m.ids) }

// Page returns the current page.
func (m *Manager) Page() int { return m.page }

// PageCount returns the number of pages.
func (m *Manager) PageCount() int { return m.result.PageCount() }

// Focused returns the focused pane id, or "".
func (m *Manager) Focused() string { return m.focused }

// FocusedOn returns the remembered focused pane of a page.
func (m *Manager) FocusedOn(page int) string { return m.focus[page] }

// Maximized returns the maximized pane id, or "".
func (m *Manager) Maximized() string { return m.maximized }

// Busy reports whether a maximize or minimize is in progress.
func (m *Manager) Busy() bool { return m.busy }

// PageMap returns a copy of a page's occupancy matrix.
func (m *Manager) PageMap(page int) layout.Page {
	if page < 0 || page >= len(m.result.Pages) {
		return nil
	}
	return m.result.Pages[page].Clone()
}

// Pane returns a snapshot of a pane.
func (m *Manager) Pane(id string) (PaneInfo, bool) {
	p, ok := m.panes[id]
	if !ok {
		return PaneInfo{}, false
	}
	return p.info(m.focused), true
}

// View returns the view hosted by a pane.
func (m *Manager) View(id string) (View, bool) {
	p, ok := m.panes[id]
	if !ok {
		return nil, false
	}
	return p.view, true
}

// Panes returns snapshots of every pane in placement order.
func (m *Manager) Panes() []PaneInfo {
	out := make([]PaneInfo, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.panes[id].info(m.focused))
	}
	return out
}

// VisiblePanes returns snapshots of the visible panes in placement order.
func (m *Manager) VisiblePanes() []PaneInfo {
	var out []PaneInfo
	for _, id := range m.ids {
		if p := m.panes[id]; p.visible {
			out = append(out, p.info(m.focused))
		}
	}
	return out
}

func (m *Manager) lookup(id string) (*Pane, error) {
	p, ok := m.panes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPaneNotFound, id)
	}
	return p, nil
}

// AddPane registers view as a new pane at the end of the pane list and
// returns its id. The view is not activated; the host runs ActivationFor
// off the event loop and reports the outcome with MarkActivated.
func (m *Manager) AddPane(view View, hints Hints) (string, error) {
	id := m.newID()
	if _, dup := m.panes[id]; dup {
		return "", fmt.Errorf("pane id %q already in use", id)
	}

	next := append(slices.Clone(m.ids), id)
	res, err := m.calc.Build(next, m.surface)
	if err != nil {
		return "", fmt.Errorf("add pane: %w", err)
	}

	key := hints.Key
	if key == "" {
		key = keyOf(view, shortID(id))
	}
	m.panes[id] = &Pane{id: id, key: key, view: view, caps: resolve(view)}
	m.ids = next
	m.commit(res)

	m.log.Info("pane added", "id", id, "key", key, "page", res.PageOf(id))
	m.emit(Notification{Kind: PaneAdded, PaneID: id, Page: res.PageOf(id)})
	m.settleFocus()
	return id, nil
}

// RemovePane destroys a pane and re-tiles the rest.
func (m *Manager) RemovePane(id string) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}

	next := slices.DeleteFunc(slices.Clone(m.ids), func(v string) bool { return v == id })
	res, err := m.calc.Build(next, m.surface)
	if err != nil {
		return fmt.Errorf("remove pane: %w", err)
	}

	page := p.pos.Page
	if m.maximized == id {
		m.maximized = ""
	}
	if m.focused == id {
		m.focused = ""
	}
	p.caps.hide()
	p.caps.destroy()
	delete(m.panes, id)
	m.ids = next

	prevPage := m.page
	m.commit(res)

	m.log.Info("pane removed", "id", id, "key", p.key)
	m.emit(Notification{Kind: PaneRemoved, PaneID: id, Page: page})
	if m.page != prevPage {
		m.emit(Notification{Kind: PageChanged, Page: m.page})
	}
	m.settleFocus()
	return nil
}

// OnResize records a new surface size and re-tiles.
func (m *Manager) OnResize(size layout.Size) {
	if size == m.surface {
		return
	}
	m.surface = size
	res, err := m.calc.Build(m.ids, size)
	if err != nil {
		// Geometry only depends on the size through custom dim functions;
		// keep the current map.
		m.log.Warn("resize rebuild failed", "error", err)
		m.applyLayout()
		return
	}
	m.commit(res)
}

// Reconfigure swaps the layout config. The current state is kept when cfg
// is invalid or cannot place the current panes.
func (m *Manager) Reconfigure(cfg layout.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	calc := layout.NewCalculator(cfg)
	res, err := calc.Build(m.ids, m.surface)
	if err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}

	prevPage := m.page
	m.cfg = cfg
	m.calc = calc
	if p, ok := m.panes[m.maximized]; ok {
		p.rect = layout.FullSurface(cfg)
		if p.panel != nil {
			// Nested offsets may have changed with the config.
			p.panel.keys = nil
		}
	}
	m.commit(res)

	m.log.Info("layout reconfigured", "rows", cfg.RowCount(), "cols", cfg.Cols, "per_page", cfg.PerPage)
	if m.page != prevPage {
		m.emit(Notification{Kind: PageChanged, Page: m.page})
	}
	m.settleFocus()
	return nil
}

// ActivationFor returns the activation hook of a pane, to be run off the
// event loop.
func (m *Manager) ActivationFor(id string) (func(context.Context) error, error) {
	p, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	return p.caps.activate, nil
}

// Pending returns the ids of panes not yet activated, in placement order.
func (m *Manager) Pending() []string {
	var out []string
	for _, id := range m.ids {
		if !m.panes[id].activated {
			out = append(out, id)
		}
	}
	return out
}

// MarkActivated records the outcome of a pane's activation. A failed
// activation is logged and the pane is still treated as ready, so focus is
// never stuck behind it.
func (m *Manager) MarkActivated(id string, activateErr error) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	if activateErr != nil {
		m.log.Warn("pane activation failed", "id", id, "key", p.key, "error", activateErr)
	} else {
		m.log.Debug("pane activated", "id", id, "key", p.key)
	}
	p.activated = true
	if m.focused == id && !p.focused {
		p.focused = true
		p.caps.focus()
	}
	return nil
}

// commit adopts a freshly built page map. Tiled panes take their new grid
// rectangles; a maximized pane keeps the full surface and only updates the
// rectangle it will restore to.
func (m *Manager) commit(res *layout.Result) {
	m.result = res
	for _, id := range m.ids {
		p := m.panes[id]
		pl := res.Placements[id]
		p.pos = pl.Position
		if p.state == Tiled {
			p.rect = pl.Rect
			continue
		}
		rect := pl.Rect
		p.saved = &rect
	}

	count := res.PageCount()
	if m.page >= count {
		m.page = max(count-1, 0)
	}
	for page := range m.focus {
		if page >= count {
			delete(m.focus, page)
		}
	}
	for page := 0; page < count; page++ {
		if id, ok := m.focus[page]; !ok || res.PageOf(id) != page {
			m.focus[page] = res.First(page)
		}
	}
	m.applyLayout()
}

// settleFocus moves focus to the current page's remembered pane when the
// focused pane is gone or has left the page.
func (m *Manager) settleFocus() {
	if m.maximized != "" && m.focused == m.maximized {
		return
	}
	if p, ok := m.panes[m.focused]; ok && p.pos.Page == m.page {
		return
	}
	if id := m.focus[m.page]; id != "" {
		m.setFocus(id)
	}
}

// applyLayout resolves every pane's rectangle against the surface, sends
// resizes for bounds that changed and updates visibility.
func (m *Manager) applyLayout() {
	for _, id := range m.ids {
		p := m.panes[id]
		b := p.rect.Resolve(m.surface)
		if b != p.bounds || !p.settled {
			p.bounds = b
			p.caps.resize(b)
		}
		if p.state == MaximizedGrid {
			m.layoutPanel(p)
		}
	}
	m.applyVisibility()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

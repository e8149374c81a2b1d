package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samuelreed/tilegrid/internal/feed"
	"github.com/samuelreed/tilegrid/internal/layout"
	"github.com/samuelreed/tilegrid/internal/wm"
)

const toastDuration = 2 * time.Second

const (
	titleBarHeight  = 1
	statusBarHeight = 1
)

// Version info - set by main via SetVersionInfo
var (
	versionInfo = "dev"
	commitHash  = "unknown"
)

// SetVersionInfo sets the version shown in the title bar
func SetVersionInfo(version, commit string) {
	versionInfo = version
	commitHash = commit
}

// program holds the tea.Program reference for sending messages from goroutines
var program *tea.Program

// SetProgram sets the program that feeds deliver their output through
func SetProgram(p *tea.Program) {
	program = p
}

func send(msg tea.Msg) {
	if program != nil {
		program.Send(msg)
	}
}

// Loader discovers the panes to open at startup.
type Loader func(ctx context.Context) ([]PaneSpec, error)

// Options configure the application model.
type Options struct {
	Logger   *slog.Logger
	LogPanel *LogPanelModel
	Loader   Loader
	// Source names the content source in the status bar.
	Source string
	Keys   *KeyMap
	// ActivationStagger delays each pane activation after the first.
	ActivationStagger time.Duration
}

// AppModel is the main application model. It owns the terminal and hosts
// the window manager: input becomes wm events handed to the dispatcher, and
// the visible panes are composed onto the surface by their bounds.
type AppModel struct {
	ctx       context.Context
	log       *slog.Logger
	dispatch  *wm.Dispatcher
	panes     map[string]*PaneModel // by pane id
	opts      Options
	keys      KeyMap
	statusBar StatusBarModel
	logPanel  *LogPanelModel
	toast     *toast
	width     int
	height    int
	sized     bool
	quitting  bool
	loadErr   error
}

// toast is a short-lived notification shown above the status bar.
type toast struct {
	text   string
	expiry time.Time
	fresh  bool // set until a redraw tick has been scheduled
}

// NewAppModel creates the application model around d.
func NewAppModel(ctx context.Context, d *wm.Dispatcher, opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.LogPanel == nil {
		opts.LogPanel = NewLogPanelModel()
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	m := AppModel{
		ctx:       ctx,
		log:       opts.Logger,
		dispatch:  d,
		panes:     make(map[string]*PaneModel),
		opts:      opts,
		keys:      keys,
		statusBar: NewStatusBarModel(),
		logPanel:  opts.LogPanel,
		toast:     &toast{},
	}
	m.statusBar.SetSource(opts.Source)
	d.Manager().Subscribe(m.onNotify)
	return m
}

// onNotify keeps the pane table in step with the manager and raises toasts.
// It runs inside Update, on the event loop.
func (m AppModel) onNotify(n wm.Notification) {
	mgr := m.dispatch.Manager()
	name := n.PaneID
	if info, ok := mgr.Pane(n.PaneID); ok {
		name = info.Key
	}

	switch n.Kind {
	case wm.PaneRemoved:
		delete(m.panes, n.PaneID)
	case wm.PaneMaximized:
		m.showToast(fmt.Sprintf("%s maximized, esc to restore", name))
	case wm.PageChanged:
		m.showToast(fmt.Sprintf("page %d/%d", n.Page+1, mgr.PageCount()))
	}
}

func (m AppModel) showToast(text string) {
	m.toast.text = text
	m.toast.expiry = time.Now().Add(toastDuration)
	m.toast.fresh = true
}

// panesLoadedMsg carries the loader's result.
type panesLoadedMsg struct {
	specs []PaneSpec
	err   error
}

// paneOutputMsg carries a feed chunk to its pane.
type paneOutputMsg struct {
	pane  *PaneModel
	chunk feed.Chunk
}

// paneActivatedMsg reports a finished pane activation.
type paneActivatedMsg struct {
	id  string
	err error
}

// wmEventMsg delivers a deferred window manager event.
type wmEventMsg struct {
	event wm.Event
}

// toastExpiredMsg triggers a redraw once a toast has expired.
type toastExpiredMsg struct{}

// AddPanesMsg asks the app to open more panes.
type AddPanesMsg struct {
	Specs []PaneSpec
}

// ReconfigureMsg carries a reloaded layout config.
type ReconfigureMsg struct {
	Config layout.Config
}

func loadPanesCmd(ctx context.Context, load Loader) tea.Cmd {
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		specs, err := load(ctx)
		return panesLoadedMsg{specs: specs, err: err}
	}
}

// Init starts loading panes
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(loadPanesCmd(m.ctx, m.opts.Loader), tea.HideCursor)
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logPanel.SetSize(msg.Width, DefaultLogPanelHeight)
		cmd = m.resizeSurface()

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			m.quitting = true
			return m, cmd
		}

	case panesLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.log.Error("loading panes failed", "source", m.opts.Source, "error", msg.err)
			return m, nil
		}
		m.log.Info("panes loaded", "source", m.opts.Source, "count", len(msg.specs))
		cmd = m.addPanes(msg.specs)

	case AddPanesMsg:
		cmd = m.addPanes(msg.Specs)

	case paneOutputMsg:
		msg.pane.AppendOutput(msg.chunk)

	case paneActivatedMsg:
		cmd = m.dispatchEvent(wm.ActivatedEvent{ID: msg.id, Err: msg.err})

	case wmEventMsg:
		cmd = m.dispatchEvent(msg.event)

	case ReconfigureMsg:
		if err := m.dispatch.Manager().Reconfigure(msg.Config); err != nil {
			m.log.Warn("layout reload rejected", "error", err)
			m.showToast("layout reload rejected, see logs")
		} else {
			m.showToast("layout reloaded")
		}

	case toastExpiredMsg:
		// redraw only
	}

	if m.toast.fresh {
		m.toast.fresh = false
		cmd = tea.Batch(cmd, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{}
		}))
	}
	return m, cmd
}

// dispatchEvent hands ev to the dispatcher and schedules any followup.
func (m AppModel) dispatchEvent(ev wm.Event) tea.Cmd {
	f, err := m.dispatch.Dispatch(ev)
	if err != nil {
		m.log.Warn("window manager event failed", "event", fmt.Sprintf("%T", ev), "error", err)
	}
	if f == nil {
		return nil
	}
	next := f.Event
	return tea.Tick(f.After, func(time.Time) tea.Msg {
		return wmEventMsg{event: next}
	})
}

// surface returns the size available to panes.
func (m AppModel) surface() layout.Size {
	return layout.Size{
		Width:  max(m.width, 0),
		Height: max(m.height-titleBarHeight-statusBarHeight-m.logPanel.Height(), 0),
	}
}

// resizeSurface reports the surface size. The first size is applied at once
// so panes never render against an empty surface; later ones are debounced.
func (m *AppModel) resizeSurface() tea.Cmd {
	if !m.sized {
		m.sized = true
		m.dispatch.Manager().OnResize(m.surface())
		return nil
	}
	return m.dispatchEvent(wm.ResizeEvent{Size: m.surface()})
}

// addPanes registers a pane per PaneSpec and activates them one after another
// in pane order.
func (m AppModel) addPanes(specs []PaneSpec) tea.Cmd {
	mgr := m.dispatch.Manager()
	var cmds []tea.Cmd
	for _, spec := range specs {
		pane := NewPaneModel(spec)
		id, err := mgr.AddPane(pane, wm.Hints{Key: spec.Key})
		if err != nil {
			m.log.Warn("adding pane failed", "key", spec.Key, "error", err)
			continue
		}
		m.panes[id] = pane
		cmds = append(cmds, m.activateCmd(id, len(cmds) > 0))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Sequence(cmds...)
}

func (m AppModel) activateCmd(id string, stagger bool) tea.Cmd {
	activate, err := m.dispatch.Manager().ActivationFor(id)
	if err != nil {
		return nil
	}
	ctx := m.ctx
	delay := m.opts.ActivationStagger
	return func() tea.Msg {
		if stagger && delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
		return paneActivatedMsg{id: id, err: activate(ctx)}
	}
}

// handleKey maps a key to a window manager event. The second result is true
// when the app should quit.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	mgr := m.dispatch.Manager()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Sequence(m.shutdownCmd(), tea.Quit), true

	case key.Matches(msg, m.keys.Logs):
		m.logPanel.Toggle()
		return m.dispatchEvent(wm.ResizeEvent{Size: m.surface()}), false

	case key.Matches(msg, m.keys.LogFilter):
		m.logPanel.CycleFilter()

	case key.Matches(msg, m.keys.ScrollUp):
		if p := m.focusedPane(); p != nil {
			p.ScrollUp()
		}

	case key.Matches(msg, m.keys.ScrollDn):
		if p := m.focusedPane(); p != nil {
			p.ScrollDown()
		}

	case key.Matches(msg, m.keys.NextPage):
		return m.dispatchEvent(wm.PageStepEvent{Delta: 1}), false

	case key.Matches(msg, m.keys.PrevPage):
		return m.dispatchEvent(wm.PageStepEvent{Delta: -1}), false

	case key.Matches(msg, m.keys.JumpPage):
		if n, ok := pageIndex(msg.String()); ok {
			return m.dispatchEvent(wm.PageEvent{Page: n}), false
		}

	case key.Matches(msg, m.keys.Maximize):
		return m.dispatchEvent(wm.MaximizeEvent{}), false

	case key.Matches(msg, m.keys.PanelGrid):
		// A plain maximized pane switches to its panel grid rather than
		// restoring.
		if id := mgr.Maximized(); id != "" {
			if info, ok := mgr.Pane(id); ok && info.State == wm.Maximized {
				return m.dispatchEvent(wm.MaximizeEvent{ID: id, PanelGrid: true}), false
			}
		}
		return m.dispatchEvent(wm.MaximizeEvent{PanelGrid: true}), false

	case key.Matches(msg, m.keys.Minimize):
		return m.dispatchEvent(wm.MinimizeEvent{}), false

	case key.Matches(msg, m.keys.Remove):
		return m.dispatchEvent(wm.RemoveEvent{}), false

	default:
		if dir, ok := m.keys.direction(msg.String()); ok {
			return m.dispatchEvent(wm.FocusEvent{Dir: dir}), false
		}
	}
	return nil, false
}

// handleMouse focuses the pane under a left click and scrolls the pane under
// the wheel.
func (m AppModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	id := m.paneAt(msg.X, msg.Y)
	if id == "" {
		return nil
	}
	switch {
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if id != m.dispatch.Manager().Focused() {
			return m.dispatchEvent(wm.FocusPaneEvent{ID: id})
		}
	case msg.Button == tea.MouseButtonWheelUp:
		m.panes[id].ScrollUp()
	case msg.Button == tea.MouseButtonWheelDown:
		m.panes[id].ScrollDown()
	}
	return nil
}

// paneAt returns the visible pane at terminal cell (x, y).
func (m AppModel) paneAt(x, y int) string {
	y -= titleBarHeight
	for _, info := range m.dispatch.Manager().VisiblePanes() {
		if info.Bounds.Contains(x, y) {
			if _, ok := m.panes[info.ID]; ok {
				return info.ID
			}
		}
	}
	return ""
}

func (m AppModel) focusedPane() *PaneModel {
	return m.panes[m.dispatch.Manager().Focused()]
}

// shutdownCmd stops every feed.
func (m AppModel) shutdownCmd() tea.Cmd {
	panes := make([]*PaneModel, 0, len(m.panes))
	for _, p := range m.panes {
		panes = append(panes, p)
	}
	return func() tea.Msg {
		for _, p := range panes {
			p.Destroy()
		}
		return nil
	}
}

// View renders the application
func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}

	sections := []string{m.renderTitleBar(), m.renderSurface()}
	if panel := m.logPanel.View(); panel != "" {
		sections = append(sections, panel)
	}

	mgr := m.dispatch.Manager()
	m.statusBar.SetWidth(m.width)
	m.statusBar.SetPaneCount(mgr.Len())
	m.statusBar.SetPage(mgr.Page(), mgr.PageCount())
	if info, ok := mgr.Pane(mgr.Maximized()); ok {
		m.statusBar.SetMaximized(info.Key, info.State)
	} else {
		m.statusBar.SetMaximized("", wm.Tiled)
	}
	sections = append(sections, m.statusBar.View())

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	view = m.padToHeight(view)

	if m.toast.text != "" && time.Now().Before(m.toast.expiry) {
		view = m.overlayToast(view)
	}
	return view
}

// renderSurface composes the visible panes at their bounds.
func (m AppModel) renderSurface() string {
	size := m.surface()
	mgr := m.dispatch.Manager()

	if mgr.Len() == 0 {
		msg := "No panes yet. Waiting for " + m.opts.Source + "..."
		if m.loadErr != nil {
			msg = "Could not load panes: " + m.loadErr.Error()
		}
		return lipgloss.NewStyle().
			Width(size.Width).
			Height(size.Height).
			MaxHeight(size.Height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#666666")).
			Render(msg)
	}

	c := NewCanvas(size.Width, size.Height)
	for _, info := range mgr.VisiblePanes() {
		if p, ok := m.panes[info.ID]; ok {
			c.Place(info.Bounds.X, info.Bounds.Y, p.View())
		}
	}
	return c.String()
}

// padToHeight ensures the view has exactly m.height lines
func (m AppModel) padToHeight(view string) string {
	lines := strings.Split(view, "\n")
	if len(lines) >= m.height {
		return strings.Join(lines[:m.height], "\n")
	}
	for len(lines) < m.height {
		lines = append(lines, strings.Repeat(" ", m.width))
	}
	return strings.Join(lines, "\n")
}

// renderTitleBar renders the top title bar
func (m AppModel) renderTitleBar() string {
	title := TitleStyle.Render(" tilegrid " + versionInfo + " ")

	var focused string
	if p := m.focusedPane(); p != nil {
		focused = PaneKey.Render("  " + p.Title())
	}

	hints := KeyHintStyle.Render("  [←↑↓→] focus  [tab] next  [[ ]] pages  [m]ax  [g]rid  [l]ogs ")

	left := title + focused
	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(hints), 0)

	return TitleBarStyle.
		Width(m.width).
		MaxHeight(titleBarHeight).
		Render(left + strings.Repeat(" ", spacing) + hints)
}

// overlayToast overlays the toast at the bottom center, above the status bar
func (m AppModel) overlayToast(background string) string {
	t := ToastStyle.Render(m.toast.text)
	x := max((m.width-lipgloss.Width(t))/2, 0)
	y := m.height - statusBarHeight - 2

	lines := strings.Split(background, "\n")
	if y >= 0 && y < len(lines) {
		lines[y] = splice(lines[y], t, x, m.width)
	}
	return strings.Join(lines, "\n")
}

// Manager returns the hosted window manager
func (m AppModel) Manager() *wm.Manager {
	return m.dispatch.Manager()
}

// Pane returns the view of pane id
func (m AppModel) Pane(id string) (*PaneModel, bool) {
	p, ok := m.panes[id]
	return p, ok
}

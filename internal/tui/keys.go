package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/samuelreed/tilegrid/internal/layout"
)

// KeyMap holds the window manager's key bindings.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Next      key.Binding
	Prev      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	JumpPage  key.Binding
	Maximize  key.Binding
	PanelGrid key.Binding
	Minimize  key.Binding
	Remove    key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Logs      key.Binding
	LogFilter key.Binding
	Quit      key.Binding
}

// pageKeys are the page jump keys, in page order.
var pageKeys = []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8"}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("ctrl+up", "up"), key.WithHelp("ctrl+↑", "focus up")),
		Down:      key.NewBinding(key.WithKeys("ctrl+down", "down"), key.WithHelp("ctrl+↓", "focus down")),
		Left:      key.NewBinding(key.WithKeys("ctrl+left", "left"), key.WithHelp("ctrl+←", "focus left")),
		Right:     key.NewBinding(key.WithKeys("ctrl+right", "right"), key.WithHelp("ctrl+→", "focus right")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous pane")),
		NextPage:  key.NewBinding(key.WithKeys("ctrl+shift+right", "]"), key.WithHelp("]", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("ctrl+shift+left", "["), key.WithHelp("[", "previous page")),
		JumpPage:  key.NewBinding(key.WithKeys(pageKeys...), key.WithHelp("F1-F8", "show page")),
		Maximize:  key.NewBinding(key.WithKeys("m", "enter"), key.WithHelp("m", "maximize")),
		PanelGrid: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "maximize as grid")),
		Minimize:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "restore")),
		Remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove pane")),
		ScrollUp:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDn:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down")),
		Logs:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle logs")),
		LogFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "log level")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// direction maps a focus binding to its direction.
func (k KeyMap) direction(msg string) (layout.Direction, bool) {
	for _, b := range []struct {
		binding key.Binding
		dir     layout.Direction
	}{
		{k.Up, layout.DirUp},
		{k.Down, layout.DirDown},
		{k.Left, layout.DirLeft},
		{k.Right, layout.DirRight},
		{k.Next, layout.DirNext},
		{k.Prev, layout.DirPrev},
	} {
		for _, s := range b.binding.Keys() {
			if s == msg {
				return b.dir, true
			}
		}
	}
	return 0, false
}

// pageIndex returns the zero-based page a jump key selects.
func pageIndex(msg string) (int, bool) {
	for i, s := range pageKeys {
		if s == msg {
			return i, true
		}
	}
	return 0, false
}

// Bindings lists every binding in help order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Left, k.Right, k.Next, k.Prev,
		k.NextPage, k.PrevPage, k.JumpPage,
		k.Maximize, k.PanelGrid, k.Minimize, k.Remove,
		k.ScrollUp, k.ScrollDn, k.Logs, k.LogFilter, k.Quit,
	}
}

// Describe returns the help text of the binding msg triggers.
func (k KeyMap) Describe(msg string) (string, bool) {
	for _, b := range k.Bindings() {
		for _, s := range b.Keys() {
			if s == msg {
				return b.Help().Desc, true
			}
		}
	}
	return "", false
}

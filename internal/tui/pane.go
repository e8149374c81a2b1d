package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/samuelreed/tilegrid/internal/feed"
	"github.com/samuelreed/tilegrid/internal/layout"
	"github.com/samuelreed/tilegrid/internal/wm"
)

// MaxOutputLines is the scrollback kept per view.
const MaxOutputLines = 500

// PaneSpec describes a pane to open.
type PaneSpec struct {
	Key   string
	Title string
	Feed  feed.Feed
}

// PaneModel is the content view of one tiled pane. The window manager drives
// it through its capability methods; feeds fill it through AppendOutput.
// A pane whose feed has children holds one child PaneModel per child and
// renders those instead of its own output.
type PaneModel struct {
	key      string
	title    string
	feed     feed.Feed
	parent   *PaneModel
	children []*PaneModel

	viewport viewport.Model
	lines    []string
	partial  string // output after the last newline

	bounds    layout.Bounds
	visible   bool
	focused   bool
	destroyed bool
}

var (
	_ wm.Resizer   = (*PaneModel)(nil)
	_ wm.Activator = (*PaneModel)(nil)
	_ wm.Container = (*PaneModel)(nil)
)

// NewPaneModel creates a pane for spec.
func NewPaneModel(spec PaneSpec) *PaneModel {
	p := newPane(spec.Key, spec.Title)
	p.feed = spec.Feed
	if spec.Feed != nil {
		for _, name := range spec.Feed.Children() {
			c := newPane(name, name)
			c.parent = p
			p.children = append(p.children, c)
		}
	}
	return p
}

func newPane(key, title string) *PaneModel {
	if title == "" {
		title = key
	}
	return &PaneModel{key: key, title: title, viewport: viewport.New(0, 0)}
}

// Key returns the pane's key.
func (p *PaneModel) Key() string { return p.key }

// Title returns the pane's display title.
func (p *PaneModel) Title() string { return p.title }

func (p *PaneModel) Show() { p.visible = true }
func (p *PaneModel) Hide() { p.visible = false }

func (p *PaneModel) Focus() { p.focused = true }
func (p *PaneModel) Blur()  { p.focused = false }

// IsFocused reports whether the view holds focus.
func (p *PaneModel) IsFocused() bool { return p.focused }

// Bounds returns the last bounds the pane was given.
func (p *PaneModel) Bounds() layout.Bounds { return p.bounds }

// Resize sets the pane's bounds. Unless the children are tiled, the child on
// display is stretched over the whole pane.
func (p *PaneModel) Resize(b layout.Bounds) {
	p.bounds = b
	atBottom := p.viewport.AtBottom()
	p.viewport.Width = max(b.Width-4, 0)   // border and padding
	p.viewport.Height = max(b.Height-3, 0) // border and header
	p.refresh(atBottom)

	if len(p.children) > 0 && !p.tiling() {
		p.displayed().Resize(layout.Bounds{Width: b.Width, Height: b.Height})
	}
}

// Activate starts the pane's feed. It runs off the event loop and only
// touches the feed; output comes back through the program as messages.
func (p *PaneModel) Activate(ctx context.Context) error {
	if p.feed == nil {
		return nil
	}
	return p.feed.Start(ctx, func(c feed.Chunk) {
		send(paneOutputMsg{pane: p, chunk: c})
	})
}

// Destroy stops the feed. The pane ignores output from then on.
func (p *PaneModel) Destroy() {
	p.destroyed = true
	if p.feed != nil {
		p.feed.Stop()
	}
}

// Children returns the child views for panel grid tiling.
func (p *PaneModel) Children() []wm.View {
	out := make([]wm.View, len(p.children))
	for i, c := range p.children {
		out[i] = c
	}
	return out
}

// Child returns the child with key, if any.
func (p *PaneModel) Child(key string) (*PaneModel, bool) {
	for _, c := range p.children {
		if c.key == key {
			return c, true
		}
	}
	return nil, false
}

// shown returns the visible children.
func (p *PaneModel) shown() []*PaneModel {
	var out []*PaneModel
	for _, c := range p.children {
		if c.visible {
			out = append(out, c)
		}
	}
	return out
}

// tiling reports whether the children are laid out as a panel grid.
func (p *PaneModel) tiling() bool {
	return len(p.shown()) > 1
}

// displayed returns the single child on display: the visible one, or the
// first child before the pane was ever maximized.
func (p *PaneModel) displayed() *PaneModel {
	if s := p.shown(); len(s) > 0 {
		return s[0]
	}
	return p.children[0]
}

// AppendOutput applies a chunk to the pane or the child it names. Chunks for
// unknown children land on the pane itself.
func (p *PaneModel) AppendOutput(c feed.Chunk) {
	if p.destroyed {
		return
	}
	target := p
	if c.Child != "" {
		if child, ok := p.Child(c.Child); ok {
			target = child
		}
	} else if len(p.children) > 0 {
		target = p.children[0]
	}
	target.write(c.Text, c.Replace)
}

func (p *PaneModel) write(text string, replace bool) {
	atBottom := p.viewport.AtBottom()
	if replace {
		p.lines = p.lines[:0]
		p.partial = ""
	}
	text = strings.ReplaceAll(p.partial+text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	p.partial = parts[len(parts)-1]
	p.lines = append(p.lines, parts[:len(parts)-1]...)
	if over := len(p.lines) - MaxOutputLines; over > 0 {
		p.lines = append(p.lines[:0], p.lines[over:]...)
	}
	p.refresh(atBottom || replace)
}

// Output returns the pane's own text, without children.
func (p *PaneModel) Output() string {
	out := strings.Join(p.lines, "\n")
	if p.partial != "" {
		if out != "" {
			out += "\n"
		}
		out += p.partial
	}
	return out
}

// refresh pushes the output into the viewport, cut to its width.
func (p *PaneModel) refresh(follow bool) {
	w := p.viewport.Width
	if w <= 0 {
		return
	}
	src := p.lines
	if p.partial != "" {
		src = append(src[:len(src):len(src)], p.partial)
	}
	cut := make([]string, len(src))
	for i, line := range src {
		cut[i] = ansi.Truncate(line, w, "")
	}
	p.viewport.SetContent(strings.Join(cut, "\n"))
	if follow {
		p.viewport.GotoBottom()
	}
}

// ScrollUp pages the displayed view up.
func (p *PaneModel) ScrollUp() {
	p.scrollTarget().viewport.PageUp()
}

// ScrollDown pages the displayed view down.
func (p *PaneModel) ScrollDown() {
	p.scrollTarget().viewport.PageDown()
}

func (p *PaneModel) scrollTarget() *PaneModel {
	if len(p.children) == 0 {
		return p
	}
	if p.tiling() {
		for _, c := range p.children {
			if c.focused && c.visible {
				return c
			}
		}
	}
	return p.displayed()
}

// highlighted reports whether the border should show focus.
func (p *PaneModel) highlighted() bool {
	if p.parent == nil {
		return p.focused
	}
	if p.parent.tiling() {
		return p.focused && p.parent.focused
	}
	return p.parent.focused
}

func (p *PaneModel) header() string {
	title := p.title
	state := ""
	if p.parent != nil {
		if !p.parent.tiling() {
			title = p.parent.title + " · " + p.key
		}
		state = p.parent.state()
	} else {
		state = p.state()
	}

	parts := make([]string, 0, 2)
	if s := StatusStyle(state); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, PaneTitle.Render(title))
	return strings.Join(parts, " ")
}

func (p *PaneModel) state() string {
	if s, ok := p.feed.(feed.Stater); ok {
		return s.State()
	}
	return ""
}

// View renders the pane at its bounds.
func (p *PaneModel) View() string {
	if len(p.children) > 0 {
		return p.viewChildren()
	}

	w, h := p.bounds.Width, p.bounds.Height
	if w <= 0 || h <= 0 {
		return ""
	}
	if w < 5 || h < 3 {
		return lipgloss.NewStyle().Width(w).Height(h).Render("")
	}

	style := PaneBorderInactive
	if p.highlighted() {
		style = PaneBorderActive
	}
	header := ansi.Truncate(p.header(), w-4, "…")
	return style.
		Width(w - 2).
		Height(h - 2).
		MaxHeight(h).
		Render(header + "\n" + p.viewport.View())
}

func (p *PaneModel) viewChildren() string {
	c := NewCanvas(p.bounds.Width, p.bounds.Height)
	shown := p.shown()
	if len(shown) == 0 {
		shown = p.children[:1]
	}
	for _, child := range shown {
		c.Place(child.bounds.X, child.bounds.Y, child.View())
	}
	return c.String()
}

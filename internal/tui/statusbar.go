package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/samuelreed/tilegrid/internal/wm"
)

// StatusBarModel represents the bottom status bar
type StatusBarModel struct {
	width     int
	paneCount int
	page      int
	pageCount int
	state     wm.State
	maximized string // key of the maximized pane
	source    string
}

// NewStatusBarModel creates a new status bar
func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{}
}

// View renders the status bar
func (s StatusBarModel) View() string {
	// Mode indicator
	var modeIndicator string
	modeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1).
		Bold(true)
	switch s.state {
	case wm.Maximized:
		modeIndicator = modeStyle.Background(lipgloss.Color("#D97706")).Render("MAX")
	case wm.MaximizedGrid:
		modeIndicator = modeStyle.Background(lipgloss.Color("#00AA00")).Render("GRID")
	default:
		modeIndicator = modeStyle.Background(lipgloss.Color("#0066CC")).Render("TILE")
	}

	noun := "panes"
	if s.paneCount == 1 {
		noun = "pane"
	}
	left := fmt.Sprintf("%s tilegrid: %d %s", modeIndicator, s.paneCount, noun)
	if s.source != "" {
		left += KeyHintStyle.Render(fmt.Sprintf(" (%s)", s.source))
	}
	if s.pageCount > 0 {
		pageStyle := lipgloss.NewStyle().Foreground(ColorMuted)
		left += pageStyle.Render(fmt.Sprintf(" [page %d/%d]", s.page+1, s.pageCount))
	}

	var center string
	if s.maximized != "" {
		maxStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
		center = fmt.Sprintf(" | %s %s", s.state, maxStyle.Render(s.maximized))
	}

	// Right section: key hints
	var hints []string
	if s.maximized != "" {
		hints = []string{KeyHint("esc", " restore"), KeyHint("g", "rid")}
	} else {
		hints = []string{KeyHint("m", "aximize"), KeyHint("g", "rid")}
	}
	if s.pageCount > 1 {
		hints = append(hints, KeyHint("F1-F8", " page"))
	}
	hints = append(hints, KeyHint("x", " remove"), KeyHint("l", "ogs"), KeyHint("q", "uit"))
	right := strings.Join(hints, " | ")

	content := left + center

	// Calculate padding to right-align hints
	leftLen := lipgloss.Width(content)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen - 2 // 2 for padding
	if padding < 1 {
		padding = 1
	}

	fullContent := content + fmt.Sprintf("%*s", padding, "") + right

	return StatusBarStyle.Width(s.width).MaxHeight(1).Render(fullContent)
}

// SetWidth sets the status bar width
func (s *StatusBarModel) SetWidth(width int) {
	s.width = width
}

// SetPaneCount updates the pane count
func (s *StatusBarModel) SetPaneCount(count int) {
	s.paneCount = count
}

// SetPage sets the zero-based current page and the page count
func (s *StatusBarModel) SetPage(page, count int) {
	s.page = page
	s.pageCount = count
}

// SetMaximized sets the maximized pane's key and state. An empty key means
// nothing is maximized.
func (s *StatusBarModel) SetMaximized(key string, state wm.State) {
	s.maximized = key
	s.state = state
	if key == "" {
		s.state = wm.Tiled
	}
}

// SetSource sets the content source name
func (s *StatusBarModel) SetSource(name string) {
	s.source = name
}

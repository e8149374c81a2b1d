package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorRunning = lipgloss.Color("#00FF00") // Green
	ColorIdle    = lipgloss.Color("#FFFF00") // Yellow
	ColorStopped = lipgloss.Color("#808080") // Gray
	ColorAccent  = lipgloss.Color("#FF00FF") // Magenta
	ColorBorder  = lipgloss.Color("#444444") // Dark gray
	ColorFocus   = lipgloss.Color("#FFFFFF") // White
	ColorMuted   = lipgloss.Color("#888888")
)

// Status indicators
const (
	IndicatorRunning = "●"
	IndicatorIdle    = "○"
	IndicatorStopped = "◌"
)

// StatusStyle returns the styled status indicator for a content state, as
// reported by a pane's feed ("running", "paused", "exited", ...).
func StatusStyle(state string) string {
	switch state {
	case "running":
		return lipgloss.NewStyle().Foreground(ColorRunning).Render(IndicatorRunning)
	case "paused", "restarting", "created":
		return lipgloss.NewStyle().Foreground(ColorIdle).Render(IndicatorIdle)
	case "":
		return ""
	default:
		return lipgloss.NewStyle().Foreground(ColorStopped).Render(IndicatorStopped)
	}
}

// Pane styles
var (
	PaneBorderActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorFocus).
				Padding(0, 1)

	PaneBorderInactive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1)

	PaneTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	PaneKey = lipgloss.NewStyle().
		Foreground(ColorMuted)
)

// Title bar styles
var (
	TitleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7C3AED")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	TitleBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937"))

	ToastStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(lipgloss.Color("#FBBF24")).
			Padding(0, 2).
			Bold(true)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// KeyHint renders a key hint like "[m]aximize"
func KeyHint(key, action string) string {
	return KeyStyle.Render("["+key+"]") + KeyHintStyle.Render(action)
}

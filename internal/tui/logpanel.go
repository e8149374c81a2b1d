package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelErr
)

// String returns the display string for a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelErr:
		return "ERR"
	default:
		return "???"
	}
}

// levelFromSlog buckets an slog level into a panel level.
func levelFromSlog(l slog.Level) LogLevel {
	switch {
	case l >= slog.LevelError:
		return LevelErr
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// LogEntry represents a single log message
type LogEntry struct {
	Time    time.Time
	Level   LogLevel
	Message string
	// Attrs holds the record's attributes rendered as key=value pairs.
	Attrs string
}

// LogPanelModel is the toggleable log panel below the tiled surface. It is
// written to from any goroutine through LogPanelHandler and read by the UI.
type LogPanelModel struct {
	entries      []LogEntry
	maxEntries   int
	mu           sync.RWMutex
	width        int
	height       int
	visible      bool
	filterLevel  LogLevel // Show this level and above
	scrollOffset int      // Lines scrolled from bottom (0 = at bottom)
	now          func() time.Time
}

// DefaultLogPanelHeight is the default height when expanded
const DefaultLogPanelHeight = 8

// MaxLogEntries is the maximum number of log entries to keep
const MaxLogEntries = 1000

// NewLogPanelModel creates a new log panel
func NewLogPanelModel() *LogPanelModel {
	return &LogPanelModel{
		entries:     make([]LogEntry, 0, MaxLogEntries),
		maxEntries:  MaxLogEntries,
		filterLevel: LevelDebug,
		now:         time.Now,
	}
}

// AddEntry adds a log entry to the panel
func (m *LogPanelModel) AddEntry(level LogLevel, message string) {
	m.add(LogEntry{Time: m.now(), Level: level, Message: message})
}

func (m *LogPanelModel) add(entry LogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Circular buffer behavior - remove oldest if at capacity
	if len(m.entries) >= m.maxEntries {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, entry)
}

// SetSize sets the panel dimensions
func (m *LogPanelModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Height returns the number of rows the panel takes, 0 when hidden.
func (m *LogPanelModel) Height() int {
	if !m.visible {
		return 0
	}
	return m.height
}

// Toggle toggles panel visibility
func (m *LogPanelModel) Toggle() {
	m.visible = !m.visible
	m.scrollOffset = 0
}

// IsVisible returns whether the panel is visible
func (m *LogPanelModel) IsVisible() bool {
	return m.visible
}

// CycleFilter cycles through filter levels
func (m *LogPanelModel) CycleFilter() {
	m.filterLevel = (m.filterLevel + 1) % 4
	m.scrollOffset = 0
}

// FilterLevel returns the current filter level
func (m *LogPanelModel) FilterLevel() LogLevel {
	return m.filterLevel
}

func (m *LogPanelModel) maxScroll() int {
	return max(len(m.filteredEntries())-(m.height-2), 0) // -2 for border
}

// ScrollUp scrolls up one line
func (m *LogPanelModel) ScrollUp() {
	if m.scrollOffset < m.maxScroll() {
		m.scrollOffset++
	}
}

// ScrollDown scrolls down one line
func (m *LogPanelModel) ScrollDown() {
	if m.scrollOffset > 0 {
		m.scrollOffset--
	}
}

// PageUp scrolls up one page
func (m *LogPanelModel) PageUp() {
	m.scrollOffset = min(m.scrollOffset+max(m.height-2, 1), m.maxScroll())
}

// PageDown scrolls down one page
func (m *LogPanelModel) PageDown() {
	m.scrollOffset = max(m.scrollOffset-max(m.height-2, 1), 0)
}

// filteredEntries returns entries matching the current filter
func (m *LogPanelModel) filteredEntries() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []LogEntry
	for _, e := range m.entries {
		if e.Level >= m.filterLevel {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// View renders the log panel
func (m *LogPanelModel) View() string {
	if !m.visible || m.height < 3 || m.width < 20 {
		return ""
	}

	filtered := m.filteredEntries()
	header := fmt.Sprintf(" Logs [%s+] ", m.filterLevel)

	contentHeight := m.height - 2
	contentWidth := m.width - 2

	start := max(len(filtered)-contentHeight-m.scrollOffset, 0)
	end := min(start+contentHeight, len(filtered))

	var visibleLines []string
	for _, entry := range filtered[start:end] {
		visibleLines = append(visibleLines, m.formatEntry(entry, contentWidth))
	}
	for len(visibleLines) < contentHeight {
		visibleLines = append(visibleLines, strings.Repeat(" ", contentWidth))
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorMuted)
	borderStyle := lipgloss.NewStyle().
		Foreground(ColorBorder)

	// Borders are assembled by hand so the header and scroll position can
	// sit inside them.
	const (
		topLeft     = "╭"
		topRight    = "╮"
		bottomLeft  = "╰"
		bottomRight = "╯"
		horizontal  = "─"
		vertical    = "│"
	)

	inner := m.width - 2
	headerWidth := lipgloss.Width(header)
	leftPad := max((inner-headerWidth)/2, 0)
	rightPad := max(inner-headerWidth-leftPad, 0)
	topBorder := borderStyle.Render(topLeft+strings.Repeat(horizontal, leftPad)) +
		headerStyle.Render(header) +
		borderStyle.Render(strings.Repeat(horizontal, rightPad)+topRight)

	var bottomBorder string
	if len(filtered) > contentHeight {
		scrollInfo := fmt.Sprintf(" %d/%d ", len(filtered)-m.scrollOffset, len(filtered))
		rightMargin := 2
		leftWidth := max(inner-lipgloss.Width(scrollInfo)-rightMargin, 0)
		bottomBorder = borderStyle.Render(bottomLeft+strings.Repeat(horizontal, leftWidth)) +
			scrollInfo +
			borderStyle.Render(strings.Repeat(horizontal, rightMargin)+bottomRight)
	} else {
		bottomBorder = borderStyle.Render(bottomLeft + strings.Repeat(horizontal, inner) + bottomRight)
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, topBorder)
	for _, line := range visibleLines {
		if w := ansi.StringWidth(line); w < contentWidth {
			line += strings.Repeat(" ", contentWidth-w)
		}
		lines = append(lines, borderStyle.Render(vertical)+line+borderStyle.Render(vertical))
	}
	lines = append(lines, bottomBorder)

	return strings.Join(lines, "\n")
}

var levelStyles = map[LogLevel]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00")),
	LevelErr:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")).Bold(true),
}

// formatEntry formats a single log entry as "HH:MM:SS.mmm [LEVEL] message k=v"
// cut to maxWidth cells.
func (m *LogPanelModel) formatEntry(entry LogEntry, maxWidth int) string {
	timestamp := lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Render(entry.Time.Format("15:04:05.000"))
	level := levelStyles[entry.Level].Render(fmt.Sprintf("[%-5s]", entry.Level))

	msg := entry.Message
	if entry.Attrs != "" {
		msg += " " + KeyHintStyle.Render(entry.Attrs)
	}
	return ansi.Truncate(timestamp+" "+level+" "+msg, maxWidth, "…")
}

// Clear removes all log entries
func (m *LogPanelModel) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = m.entries[:0]
	m.scrollOffset = 0
}

// EntryCount returns the total number of entries
func (m *LogPanelModel) EntryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

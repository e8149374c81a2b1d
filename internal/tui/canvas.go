package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Canvas is a fixed-size grid of styled lines that rendered blocks are
// placed onto by cell position.
type Canvas struct {
	width  int
	height int
	lines  []string
}

// NewCanvas returns a blank canvas.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	lines := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = blank
	}
	return &Canvas{width: width, height: height, lines: lines}
}

// Place draws block with its top-left corner at (x, y). Lines falling
// outside the canvas are clipped; the background left and right of the block
// is kept, styles included.
func (c *Canvas) Place(x, y int, block string) {
	if x >= c.width || block == "" {
		return
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 {
			continue
		}
		if row >= c.height {
			break
		}
		c.lines[row] = splice(c.lines[row], line, x, c.width)
	}
}

// splice overwrites bg from column x with fg, keeping the total width.
func splice(bg, fg string, x, width int) string {
	skip := 0
	if x < 0 {
		skip, x = -x, 0
	}
	if skip > 0 {
		fg = ansi.TruncateLeft(fg, skip, "")
	}
	fg = ansi.Truncate(fg, width-x, "")
	fgWidth := ansi.StringWidth(fg)

	var sb strings.Builder
	left := ansi.Truncate(bg, x, "")
	sb.WriteString(left)
	if w := ansi.StringWidth(left); w < x {
		sb.WriteString(strings.Repeat(" ", x-w))
	}
	sb.WriteString(fg)

	rightStart := x + fgWidth
	if rightStart < width {
		right := ansi.TruncateLeft(bg, rightStart, "")
		sb.WriteString(right)
		if w := ansi.StringWidth(right); w < width-rightStart {
			sb.WriteString(strings.Repeat(" ", width-rightStart-w))
		}
	}
	return sb.String()
}

// Lines returns the canvas rows.
func (c *Canvas) Lines() []string {
	return c.lines
}

// String joins the canvas rows.
func (c *Canvas) String() string {
	return strings.Join(c.lines, "\n")
}

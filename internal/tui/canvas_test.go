package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestCanvas_Blank(t *testing.T) {
	c := NewCanvas(5, 3)
	want := "     \n     \n     "
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCanvas_Place(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		block string
		want  []string
	}{
		{"top left", 0, 0, "ab\ncd", []string{"ab    ", "cd    ", "      "}},
		{"middle", 2, 1, "xy", []string{"      ", "  xy  ", "      "}},
		{"clipped right", 4, 0, "wxyz", []string{"    wx", "      ", "      "}},
		{"clipped bottom", 0, 2, "a\nb\nc", []string{"      ", "      ", "a     "}},
		{"negative x", -2, 0, "abcd", []string{"cd    ", "      ", "      "}},
		{"negative y", 1, -1, "a\nb", []string{" b    ", "      ", "      "}},
		{"off canvas", 6, 0, "a", []string{"      ", "      ", "      "}},
		{"empty", 0, 0, "", []string{"      ", "      ", "      "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(6, 3)
			c.Place(tt.x, tt.y, tt.block)
			got := c.Lines()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCanvas_PlaceKeepsBackground(t *testing.T) {
	c := NewCanvas(8, 1)
	c.Place(0, 0, "12345678")
	c.Place(3, 0, "ab")

	if got := c.Lines()[0]; got != "123ab678" {
		t.Errorf("line = %q, want %q", got, "123ab678")
	}
}

func TestCanvas_StyledBlocks(t *testing.T) {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Width(4).Render("hi")

	c := NewCanvas(20, 4)
	c.Place(0, 0, box)
	c.Place(10, 1, box)

	for i, line := range c.Lines() {
		if w := ansi.StringWidth(line); w != 20 {
			t.Errorf("line %d width = %d, want 20", i, w)
		}
	}
	if !strings.Contains(ansi.Strip(c.Lines()[1]), "hi") {
		t.Errorf("line 1 = %q, want the first box's text", ansi.Strip(c.Lines()[1]))
	}
}

package layout

import (
	"fmt"
	"strings"
)

// Direction represents a navigation direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	// DirNext and DirPrev walk the page in placement order.
	DirNext
	DirPrev
)

var directionNames = map[Direction]string{
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
	DirNext:  "next",
	DirPrev:  "prev",
}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Locate returns the top-left cell of the pane id.
func Locate(page Page, id string) (row, col int, ok bool) {
	if id == "" {
		return 0, 0, false
	}
	for r, cells := range page {
		for c, cell := range cells {
			if cell == id {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Ordered returns the distinct pane ids of a page in placement order.
func Ordered(page Page) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, cells := range page {
		for _, id := range cells {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Move returns the pane reached by moving from current in dir. It returns
// current when nothing else qualifies, and the first pane of the page when
// current is not on it.
func Move(page Page, current string, dir Direction) string {
	row, col, ok := Locate(page, current)
	if !ok {
		return scan(page, true, "")
	}

	switch dir {
	case DirUp:
		return moveVertical(page, current, row, col, -1)
	case DirDown:
		return moveVertical(page, current, row, col, 1)
	case DirLeft:
		return moveLeft(page, current, row, col)
	case DirRight:
		return moveRight(page, current, row, col)
	case DirNext:
		return Cycle(Ordered(page), current, 1)
	case DirPrev:
		return Cycle(Ordered(page), current, -1)
	}
	return current
}

// Cycle steps delta places through ids from current, wrapping at both ends.
// An unknown current yields the first id.
func Cycle(ids []string, current string, delta int) string {
	if len(ids) == 0 {
		return current
	}
	idx := -1
	for i, id := range ids {
		if id == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ids[0]
	}
	n := len(ids)
	return ids[((idx+delta)%n+n)%n]
}

// moveVertical steps off the pane's top or bottom edge, wrapping around the
// page and skipping rows that hold no pane.
func moveVertical(page Page, id string, row, col, step int) string {
	bottom := row
	for bottom+1 < len(page) && col < len(page[bottom+1]) && page[bottom+1][col] == id {
		bottom++
	}
	start := row - 1
	if step > 0 {
		start = bottom + 1
	}

	n := len(page)
	width := len(page[row])
	for i := 0; i < n; i++ {
		target := ((start+step*i)%n + n) % n
		cells := page[target]
		if !hasPane(cells) {
			continue
		}
		if col < len(cells) && cells[col] != "" {
			return cells[col]
		}
		return sameSide(cells, col, width, step > 0)
	}
	return id
}

// sameSide picks a pane from a row whose cell under col is empty. It searches
// from the half of the row col sits in, then falls back to the first column
// (moving up) or the last column (moving down).
func sameSide(cells []string, col, width int, down bool) string {
	if col > width/2 {
		start := col
		if start >= len(cells) {
			start = len(cells) - 1
		}
		for c := start; c >= 0; c-- {
			if cells[c] != "" {
				return cells[c]
			}
		}
	} else {
		for c := col; c < len(cells); c++ {
			if cells[c] != "" {
				return cells[c]
			}
		}
	}

	fallback := cells[0]
	if down {
		fallback = cells[len(cells)-1]
	}
	if fallback != "" {
		return fallback
	}
	for _, cell := range cells {
		if cell != "" {
			return cell
		}
	}
	return ""
}

func moveLeft(page Page, id string, row, col int) string {
	cells := page[row]
	for c := col - 1; c >= 0; c-- {
		if cells[c] != "" && cells[c] != id {
			return cells[c]
		}
	}
	if row > 0 {
		prev := page[row-1]
		for c := len(prev) - 1; c >= 0; c-- {
			if prev[c] != "" && prev[c] != id {
				return prev[c]
			}
		}
	}
	if target := scan(page, false, id); target != "" {
		return target
	}
	return id
}

func moveRight(page Page, id string, row, col int) string {
	cells := page[row]
	for c := col + 1; c < len(cells); c++ {
		if cells[c] != "" && cells[c] != id {
			return cells[c]
		}
	}
	if row+1 < len(page) {
		for _, cell := range page[row+1] {
			if cell != "" && cell != id {
				return cell
			}
		}
	}
	if target := scan(page, true, id); target != "" {
		return target
	}
	return id
}

// scan returns the first pane other than skip, walking the matrix in row-major
// order or in reverse.
func scan(page Page, forward bool, skip string) string {
	if forward {
		for _, cells := range page {
			for _, cell := range cells {
				if cell != "" && cell != skip {
					return cell
				}
			}
		}
		return ""
	}
	for r := len(page) - 1; r >= 0; r-- {
		for c := len(page[r]) - 1; c >= 0; c-- {
			if cell := page[r][c]; cell != "" && cell != skip {
				return cell
			}
		}
	}
	return ""
}

func hasPane(cells []string) bool {
	for _, cell := range cells {
		if cell != "" {
			return true
		}
	}
	return false
}

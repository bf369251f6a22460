package internal

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Pad aligns s within |alignment| display cells. A positive alignment pads on
// the left (right-aligned text), a negative one pads on the right.
func Pad(s string, alignment int, fill rune) string {
	width := alignment
	if width < 0 {
		width = -width
	}
	current := runewidth.StringWidth(s)
	if current >= width {
		return s
	}
	fillWidth := runewidth.RuneWidth(fill)
	if fillWidth <= 0 {
		fillWidth = 1
	}
	padding := strings.Repeat(string(fill), (width-current)/fillWidth)
	if alignment > 0 {
		return padding + s
	}
	return s + padding
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

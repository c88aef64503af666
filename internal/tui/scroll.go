package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cartChrome is how many lines of the cart screen are not item rows:
// header, summary, status, warnings and help.
const cartChrome = 14

// window returns the first row to show so that cursor is visible when only
// rows of total fit, and how many rows to show.
func window(total, rows, cursor int) (start, n int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start = max(0, min(cursor-rows+1, total-rows))
	return start, rows
}

// scrollbar renders a track of height lines with a thumb sized and placed
// by how much of total is visible starting at offset.
func scrollbar(total, height, offset int, thumb, track lipgloss.Style) string {
	if height <= 0 {
		return ""
	}
	thumbTop, thumbLen := 0, height
	if total > height {
		thumbLen = max(1, min(height, height*height/total))
		if span := total - height; span > 0 {
			offset = max(0, min(offset, span))
			thumbTop = offset * (height - thumbLen) / span
		}
	}

	lines := make([]string, height)
	for i := range lines {
		if i >= thumbTop && i < thumbTop+thumbLen {
			// A plain space would lose its background.
			lines[i] = thumb.Render(" ")
		} else {
			lines[i] = track.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}

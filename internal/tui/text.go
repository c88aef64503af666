package tui

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// truncate shortens s to at most width terminal cells, ending in an
// ellipsis when anything was cut. Grapheme clusters are never split.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	target := width - uniseg.StringWidth(ellipsis)

	var b strings.Builder
	used := 0
	state := -1
	for rest := s; len(rest) > 0; {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > target {
			break
		}
		used += w
		b.WriteString(cluster)
	}
	b.WriteString(ellipsis)
	return b.String()
}

// padRight pads s with spaces to width cells, truncating if it is wider.
func padRight(s string, width int) string {
	s = truncate(s, width)
	if gap := width - uniseg.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// padLeft right-aligns s in width cells.
func padLeft(s string, width int) string {
	if gap := width - uniseg.StringWidth(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// columnWidth is the widest of values, clamped to [lo, hi].
func columnWidth(values []string, lo, hi int) int {
	w := lo
	for _, v := range values {
		if n := uniseg.StringWidth(v); n > w {
			w = n
		}
	}
	if w > hi {
		return hi
	}
	return w
}

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestWindow(t *testing.T) {
	for _, tc := range []struct {
		total, rows, cursor int
		start, n            int
	}{
		{total: 3, rows: 5, cursor: 2, start: 0, n: 3},
		{total: 3, rows: 0, cursor: 2, start: 0, n: 3},
		{total: 10, rows: 4, cursor: 0, start: 0, n: 4},
		{total: 10, rows: 4, cursor: 3, start: 0, n: 4},
		{total: 10, rows: 4, cursor: 4, start: 1, n: 4},
		{total: 10, rows: 4, cursor: 9, start: 6, n: 4},
		{total: 10, rows: 4, cursor: 42, start: 6, n: 4},
	} {
		start, n := window(tc.total, tc.rows, tc.cursor)
		if start != tc.start || n != tc.n {
			t.Errorf("window(%d, %d, %d) = %d, %d; want %d, %d", tc.total, tc.rows, tc.cursor, start, n, tc.start, tc.n)
		}
	}
}

func TestScrollbar(t *testing.T) {
	plain := lipgloss.NewStyle()
	thumbRows := func(s string) []int {
		var out []int
		for i, line := range strings.Split(s, "\n") {
			if line != "│" {
				out = append(out, i)
			}
		}
		return out
	}

	if got := scrollbar(10, 0, 0, plain, plain); got != "" {
		t.Errorf("zero height should render nothing, got %q", got)
	}
	if got := thumbRows(scrollbar(3, 4, 0, plain, plain)); len(got) != 4 {
		t.Errorf("content that fits should be all thumb, got rows %v", got)
	}
	if got := thumbRows(scrollbar(16, 4, 0, plain, plain)); len(got) != 1 || got[0] != 0 {
		t.Errorf("top of long content: thumb rows %v", got)
	}
	if got := thumbRows(scrollbar(16, 4, 12, plain, plain)); len(got) != 1 || got[0] != 3 {
		t.Errorf("bottom of long content: thumb rows %v", got)
	}
	if got := thumbRows(scrollbar(16, 4, 99, plain, plain)); len(got) != 1 || got[0] != 3 {
		t.Errorf("offset past the end should clamp: thumb rows %v", got)
	}
	if got := strings.Count(scrollbar(8, 4, 2, plain, plain), "\n"); got != 3 {
		t.Errorf("expected exactly 4 lines, got %d newlines", got)
	}
}

package tui

import (
	"testing"

	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in    string
		width int
		want  string
	}{
		{"Luna", 10, "Luna"},
		{"Jardín de noche", 6, "Jardí…"},
		{"猫猫猫", 4, "猫…"},
		{"猫猫猫", 6, "猫猫猫"},
		{"abc", 0, ""},
		{"abc", 1, "…"},
	} {
		got := truncate(tc.in, tc.width)
		assert.Equal(t, tc.want, got, "truncate(%q, %d)", tc.in, tc.width)
		assert.LessOrEqual(t, uniseg.StringWidth(got), max(tc.width, 0))
	}
}

func TestPadding(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "猫  ", padRight("猫", 4))
	assert.Equal(t, "  猫", padLeft("猫", 4))
	assert.Equal(t, "Bosq…", padRight("Bosque dormido", 5))
	assert.Equal(t, "toolong", padLeft("toolong", 3))
}

func TestColumnWidth(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 12, columnWidth([]string{"a"}, 12, 30))
	assert.Equal(t, 14, columnWidth([]string{"Bosque dormido", "Luna"}, 4, 30))
	assert.Equal(t, 5, columnWidth([]string{"Bosque dormido"}, 4, 5))
}

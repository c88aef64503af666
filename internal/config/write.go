package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// SetKeyInFile sets a global option in the file at path, creating the file
// if needed. Comments, sections and other lines are kept as they are. An
// existing global line for key is rewritten in place; otherwise the option
// goes just before the first [section] header, or at the end.
func SetKeyInFile(path, key, value string) error {
	if key == "" || strings.ContainsAny(key, " \t\n[]#") {
		return fmt.Errorf("invalid option name %q", key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("option %q: value must be a single line", key)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	entry := strings.TrimSpace(key + " " + value)
	lines := splitLines(string(data))
	lines = setGlobalLine(lines, key, entry)

	out := strings.Join(lines, "\n") + "\n"
	return storage.AtomicWriteFile(path, []byte(out), 0644)
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func setGlobalLine(lines []string, key, entry string) []string {
	firstSection := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			firstSection = i
			break
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = entry
			return lines
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:firstSection]...)
	out = append(out, entry)
	return append(out, lines[firstSection:]...)
}

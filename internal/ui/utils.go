package ui

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ShortenPath shortens a path by abbreviating parent directories
// e.g., /Users/john/workspaces/project -> /U/j/w/project
func ShortenPath(path string) string {
	parts := strings.Split(filepath.Clean(path), string(filepath.Separator))
	if len(parts) <= 2 {
		return path
	}

	// Keep the last part (filename/directory) and abbreviate the rest
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] != "" {
			parts[i] = string([]rune(parts[i])[0])
		}
	}

	return strings.Join(parts, string(filepath.Separator))
}

// Truncate cuts s to max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

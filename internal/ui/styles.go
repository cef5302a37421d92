package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Shared terminal styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	FaintStyle   = lipgloss.NewStyle().Faint(true)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	LinkStyle    = lipgloss.NewStyle().Underline(true)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25"))

	// Row highlighting in the route-matching preview
	MatchedRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	UnmatchedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Rule is a faint horizontal separator
func Rule(width int) string {
	if width <= 0 {
		width = 40
	}
	b := make([]rune, width)
	for i := range b {
		b[i] = '━'
	}
	return FaintStyle.Render(string(b))
}

// RowStyle picks the highlight for a preview row
func RowStyle(matched bool) lipgloss.Style {
	if matched {
		return MatchedRowStyle
	}
	return UnmatchedRowStyle
}

// Cell renders s truncated and padded to width columns
func Cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(Truncate(s, width-1))
}

// StatusStyle maps a run outcome to a colour
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "passed", "success", "unchanged", "ok":
		return SuccessStyle
	case "failed", "error", "changed":
		return ErrorStyle
	default:
		return WarnStyle
	}
}

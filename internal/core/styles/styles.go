// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/redline/internal/core/edit"
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	Subtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	Selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	Accept  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	Reject  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	PaneBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	StatusBar = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
)

// Edit type markers shown next to queue entries.
const (
	MarkInsert  = "+"
	MarkReplace = "~"
	MarkDelete  = "-"
)

// EditMark returns the marker and its style for an edit type.
func EditMark(t edit.Type) (string, lipgloss.Style) {
	switch t {
	case edit.TypeInsert:
		return MarkInsert, Accept
	case edit.TypeDelete:
		return MarkDelete, Reject
	default:
		return MarkReplace, Pending
	}
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/devbush/vid2brief/internal/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// StyleSuccess renders s in the success color.
func StyleSuccess(s string) string { return successStyle.Render(s) }

// StyleWarn renders s in the warning color.
func StyleWarn(s string) string { return warnStyle.Render(s) }

// StyleMuted renders s dimmed.
func StyleMuted(s string) string { return mutedStyle.Render(s) }

// statusGlyph maps a processing status to a one-character marker.
func statusGlyph(status domain.ProcessingStatus) string {
	switch status {
	case domain.StatusCompleted:
		return successStyle.Render("✓")
	case domain.StatusSkippedNoContent:
		return warnStyle.Render("−")
	case domain.StatusSkippedDuplicate:
		return mutedStyle.Render("·")
	default:
		return " "
	}
}

// FormatRecordLine formats a ledger record as a single display line.
// Example: "✓ 2025-11-14  BV1xx411c7mD  completed  ~/reports/....md"
func FormatRecordLine(rec *domain.ProcessingRecord) string {
	line := fmt.Sprintf("%s %s  %-14s %-20s", statusGlyph(rec.Status), rec.Date, rec.VideoID, rec.Status)
	if rec.DocumentPath != "" {
		line += "  " + mutedStyle.Render(rec.DocumentPath)
	}
	return line
}

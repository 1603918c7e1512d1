package report

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#5B8DEF")
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	// TitleStyle is used for the report heading.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// LabelStyle formats the left column of a report row.
	LabelStyle = lipgloss.NewStyle().
			Foreground(subtleColor).
			Width(labelWidth)

	SuccessStyle = lipgloss.NewStyle().Foreground(successColor)
	WarningStyle = lipgloss.NewStyle().Foreground(warningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(primaryColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(subtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames the whole report.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

const labelWidth = 18

// toneStyle maps a tier tone onto a terminal style.
func toneStyle(tone string) lipgloss.Style {
	switch tone {
	case "green":
		return SuccessStyle
	case "blue", "primary":
		return InfoStyle
	case "error":
		return ErrorStyle
	default:
		return SubtleStyle
	}
}

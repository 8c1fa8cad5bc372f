// Package cli provides styled terminal output using lipgloss. Nothing here
// writes the JSON result contract; it only renders human-facing views.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (workshop orange).
	PrimaryColor = lipgloss.Color("#FF9F43")
	// SuccessColor indicates healthy values.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates degraded values.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates missing or failed values.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent text.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// LabelStyle formats field labels in key/value listings.
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(22)

	// SuccessStyle formats present or healthy values.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats degraded values.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats missing values.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				PaddingRight(2)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	PresentIcon = "✓"
	AbsentIcon  = "✗"
	WrenchIcon  = "🔧"
)

// RenderBox renders content in a styled box under title.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(WrenchIcon + " " + title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// KeyValue renders one aligned label/value line.
func KeyValue(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

// Presence renders whether an optional component is available.
func Presence(present bool, detail string) string {
	if present {
		return SuccessStyle.Render(PresentIcon + " " + detail)
	}
	return ErrorStyle.Render(AbsentIcon + " absent")
}

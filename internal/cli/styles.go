// Package cli renders human-facing terminal output: styled messages, tables,
// classification summaries and progress bars.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#2E9E6B") // ledger green
	SuccessColor = lipgloss.Color("#3FB68B")
	WarningColor = lipgloss.Color("#E9B949")
	ErrorColor   = lipgloss.Color("#E05D5D")
	InfoColor    = lipgloss.Color("#7FB8D6")
	SubtleColor  = lipgloss.Color("#6C6C6C")
)

// Text styles.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).PaddingRight(2)
	TableCellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// Message icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "›"
	LedgerIcon  = "📒"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess renders a confirmation line.
func FormatSuccess(message string) string { return withIcon(SuccessStyle, SuccessIcon, message) }

// FormatError renders an error line.
func FormatError(message string) string { return withIcon(ErrorStyle, ErrorIcon, message) }

// FormatWarning renders a warning line.
func FormatWarning(message string) string { return withIcon(WarningStyle, WarningIcon, message) }

// FormatInfo renders an informational line.
func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section title.
func FormatTitle(title string) string { return withIcon(TitleStyle, LedgerIcon, title) }

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}

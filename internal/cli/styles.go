// Package cli provides styled terminal output for the binrota commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ewanmcn/binrota/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7AA2F7")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#9ECE6A")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#E0AF68")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#F7768E")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)
)

// categoryColors maps each bin category to a terminal colour resembling the
// physical bin.
var categoryColors = map[model.BinCategory]lipgloss.Color{
	model.CategoryBlack:    lipgloss.Color("#A9B1D6"),
	model.CategoryBlue:     lipgloss.Color("#7AA2F7"),
	model.CategoryGrey:     lipgloss.Color("#C0CAF5"),
	model.CategoryBurgundy: lipgloss.Color("#BB5A5A"),
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	BinIcon     = "🗑️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatTitle formats a title with the bin icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(BinIcon + " " + title)
}

// StyleCategory renders a category name in its bin colour.
func StyleCategory(c model.BinCategory) string {
	color, ok := categoryColors[c]
	if !ok {
		return c.String()
	}
	return lipgloss.NewStyle().Foreground(color).Render(c.String())
}

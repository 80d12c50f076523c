package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	output        = termenv.DefaultOutput()
	foreground    = lipgloss.Color(termenv.ConvertToRGB(output.ForegroundColor()).Hex())
	background    = lipgloss.Color(termenv.ConvertToRGB(output.BackgroundColor()).Hex())
	altForeground = lipgloss.AdaptiveColor{Light: "#4a4a4a", Dark: "#b0b0b0"}
	accent        = lipgloss.AdaptiveColor{Light: "#005faf", Dark: "#5fafff"}
)

var (
	Regular     = lipgloss.NewStyle().Foreground(foreground)
	Bold        = Regular.Bold(true)
	Inverse     = lipgloss.NewStyle().Foreground(background).Background(foreground)
	Alt         = lipgloss.NewStyle().Foreground(altForeground)
	Accent      = lipgloss.NewStyle().Foreground(accent)
	AccentBold  = Accent.Bold(true)
	Underline   = Regular.Underline(true)
	KeyHelp     = lipgloss.NewStyle().Foreground(background).Background(foreground).Bold(true).Underline(true)
	Suggestion  = Alt
	FieldName   = Bold
	Selected    = Inverse
	Unfocused   = Alt
	FocusBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent)
	BlurBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(altForeground)
)

package style

import "github.com/charmbracelet/lipgloss"

// Palette defines the application's color scheme.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Overlay = lipgloss.Color("#6c7086")

	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Blue     = lipgloss.Color("#89b4fa")
	Lavender = lipgloss.Color("#b4befe")

	AccentColor    = Mauve
	SecondaryColor = Lavender
	SuccessColor   = Green
	WarningColor   = Yellow
	ErrorColor     = Red
	FaintColor     = Overlay
)

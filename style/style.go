// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/solotube/solotube/color"
)

// New returns an empty lipgloss.Style used as a foundation for visual composition.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a rendering function that applies the foreground color to a string.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a rendering function that constrains the output string to a maximum width.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().MaxWidth(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a banner for a view.
var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle renders a banner in error colors.
var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}

// Tag returns a rendering function that wraps a string in a colored, padded block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}

// Scrubber styles: the selected span, the rest of the track and the handles.
var (
	Selected = func(s string) string { return New().Foreground(AccentColor).Render(s) }
	Track    = func(s string) string { return New().Foreground(FaintColor).Render(s) }
	Handle   = func(active bool) func(string) string {
		if active {
			return func(s string) string { return New().Foreground(WarningColor).Bold(true).Render(s) }
		}
		return func(s string) string { return New().Foreground(SecondaryColor).Render(s) }
	}
)

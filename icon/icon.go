// Package icon renders the symbols used in status lines and notifications.
//
// Every icon has a form per variant (emoji, nerd-font glyphs, plain text, kaomoji and
// Unicode squares) selected by the icons.variant setting.
package icon

import (
	"github.com/solotube/solotube/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) variant(name string) (string, bool) {
	switch name {
	case emoji:
		return d.emoji, true
	case nerd:
		return d.nerd, true
	case plain:
		return d.plain, true
	case kaomoji:
		return d.kaomoji, true
	case squares:
		return d.squares, true
	default:
		return "", false
	}
}

// Get renders i in the configured variant. Unknown variants render as plain text.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	if s, ok := def.variant(viper.GetString(key.IconsVariant)); ok {
		return s
	}
	return def.plain
}

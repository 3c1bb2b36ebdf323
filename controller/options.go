package controller

import (
	"time"

	"github.com/solotube/solotube/config"
	"github.com/solotube/solotube/key"
	"github.com/spf13/viper"
)

// Options tunes the controller.
type Options struct {
	SpeedStep       float64
	SpeedThrottle   time.Duration
	PreviewThrottle time.Duration
	SpaceToggle     bool
	SaveHistory     bool
	LinkBase        string
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	return Options{
		SpeedStep:       0.025,
		SpeedThrottle:   50 * time.Millisecond,
		PreviewThrottle: 100 * time.Millisecond,
		SaveHistory:     true,
		LinkBase:        "https://solotube.app/",
	}
}

// OptionsFromConfig reads the tuning from the configuration.
func OptionsFromConfig() Options {
	options := DefaultOptions()

	if step := viper.GetFloat64(key.SpeedStep); step > 0 {
		options.SpeedStep = step
	}
	if d := config.Millis(key.SpeedThrottle); d >= 0 {
		options.SpeedThrottle = d
	}
	if d := config.Millis(key.PreviewThrottle); d >= 0 {
		options.PreviewThrottle = d
	}
	if base := viper.GetString(key.LinkBase); base != "" {
		options.LinkBase = base
	}
	options.SpaceToggle = viper.GetBool(key.PlayerSpaceToggle)
	options.SaveHistory = viper.GetBool(key.HistorySave)

	return options
}

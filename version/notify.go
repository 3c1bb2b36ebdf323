package version

import (
	"fmt"

	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release than the running one exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/solotube/solotube/releases/tag/v"+latest),
	)
}

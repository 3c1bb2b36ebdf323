package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/style"
)

// CheckDependencies exits when mpv is not on the PATH.
func CheckDependencies() {
	if _, err := exec.LookPath("mpv"); err != nil {
		printMissingDependencyError("mpv")
		os.Exit(1)
	}
}

func installHint(goos string) string {
	switch goos {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	case constant.Android:
		return "pkg install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep)

	suggestion := ""
	if hint := installHint(runtime.GOOS); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

package cmd

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		defer version.Notify()

		mpv, err := exec.LookPath("mpv")
		if err != nil {
			mpv = style.Fg(color.Red)("not found")
		}

		info := struct {
			App, Version, Revision, BuiltAt, BuiltBy string
			OS, Arch, Mpv                            string
		}{
			App:      constant.Solotube,
			Version:  constant.Version,
			Revision: constant.Revision,
			BuiltAt:  strings.TrimSpace(constant.BuiltAt),
			BuiltBy:  constant.BuiltBy,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			Mpv:      mpv,
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), info))
	},
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}     {{ bold .Version }}
  {{ faint "Git Commit" }}  {{ bold .Revision }}
  {{ faint "Build Date" }}  {{ bold .BuiltAt }}
  {{ faint "Built By" }}    {{ bold .BuiltBy }}
  {{ faint "Platform" }}    {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "mpv" }}         {{ .Mpv }}
`))

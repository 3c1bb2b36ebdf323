package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/sharelink"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/tui"
	"github.com/solotube/solotube/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().BoolP("open", "o", false, "Open the link in the player")
	linkCmd.SetOut(os.Stdout)
}

var linkCmd = &cobra.Command{
	Use:   "link <url>",
	Short: "Inspect a share link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		link, err := sharelink.Parse(args[0])
		handleErr(err)

		label := style.New().Bold(true).Foreground(color.Purple).Render
		cmd.Printf("%s %s\n", label("Video"), link.SourceID)

		if link.HasBounds {
			if err := link.Validate(); err != nil {
				cmd.Printf("%s %s\n", label("Loop "), style.Fg(color.Yellow)(err.Error()+", the whole video will loop"))
			} else {
				cmd.Printf("%s %s - %s\n", label("Loop "), util.FormatClock(link.Start), util.FormatClock(link.End))
			}
		} else {
			cmd.Printf("%s %s\n", label("Loop "), style.Faint("none, pick one in the player"))
		}

		cmd.Printf("%s %s\n", label("Link "), link.String(viper.GetString(key.LinkBase)))

		if lo.Must(cmd.Flags().GetBool("open")) {
			cmd.Println(icon.Get(icon.Play) + " opening")
			CheckDependencies()
			handleErr(tui.Run(&tui.Options{Source: args[0]}))
		}
	},
}

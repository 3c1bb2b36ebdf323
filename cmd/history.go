package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atotto/clipboard"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/sharelink"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var clipboardWriteAll = clipboard.WriteAll

func completionHistoryIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	entries, err := history.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(entries, func(e *history.Entry, _ int) string {
		return e.SourceID + "\t" + e.Display()
	}), cobra.ShellCompDirectiveNoFileComp
}

func mustEntry(id string) *history.Entry {
	entry, ok, err := history.Get(id)
	handleErr(err)
	if !ok {
		handleErr(fmt.Errorf("no loop saved for %s", id))
	}
	return entry
}

func entryLink(entry *history.Entry) string {
	return sharelink.New(entry.SourceID, playback.Bounds{Start: entry.Start, End: entry.End}).
		String(viper.GetString(key.LinkBase))
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage practiced loops",
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyListCmd.Flags().StringP("filter", "f", "", "Only show loops whose name or id fuzzy matches")
	historyListCmd.SetOut(os.Stdout)
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List practiced loops, most recent first",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			entries []*history.Entry
			err     error
		)

		if filter := lo.Must(cmd.Flags().GetString("filter")); filter != "" {
			entries, err = history.Find(filter)
		} else {
			entries, err = history.List()
		}
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No loops saved yet"))
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		if width, _, err := util.TerminalSize(); err == nil && width > 0 {
			t.SetAllowedRowLength(width)
		}

		t.AppendHeader(table.Row{"ID", "Name", "Loop", "Saved"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				text.FgMagenta.Sprint(e.SourceID),
				e.Display(),
				text.FgYellow.Sprint(e.Span()),
				text.FgHiBlack.Sprint(e.SavedAt.Format("2006-01-02 15:04")),
			})
		}
		t.Render()
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

var historyRemoveCmd = &cobra.Command{
	Use:               "remove <id>",
	Short:             "Forget the loop saved for a video",
	Aliases:           []string{"rm"},
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionHistoryIDs,
	Run: func(cmd *cobra.Command, args []string) {
		removed, err := history.Remove(args[0])
		handleErr(err)
		if !removed {
			handleErr(fmt.Errorf("no loop saved for %s", args[0]))
		}

		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(args[0]))
	},
}

func init() {
	historyCmd.AddCommand(historyLinkCmd)
	historyLinkCmd.Flags().BoolP("copy", "c", false, "Copy the link to the clipboard")
	historyLinkCmd.SetOut(os.Stdout)
}

var historyLinkCmd = &cobra.Command{
	Use:               "link <id>",
	Short:             "Print the share link of a saved loop",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionHistoryIDs,
	Run: func(cmd *cobra.Command, args []string) {
		link := entryLink(mustEntry(args[0]))

		if lo.Must(cmd.Flags().GetBool("copy")) {
			handleErr(clipboardWriteAll(link))
			fmt.Printf("%s copied %s\n", style.Fg(color.Green)(icon.Get(icon.Link)), link)
			return
		}

		cmd.Println(link)
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every saved loop",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		if len(entries) == 0 {
			cmd.Println(style.Faint("No loops saved yet"))
			return
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var confirmed bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Forget %s?", util.Quantify(len(entries), "saved loop", "saved loops")),
				Default: false,
			}, &confirmed))

			if !confirmed {
				return
			}
		}

		handleErr(history.Clear())
		fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

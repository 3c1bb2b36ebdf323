// Package cmd implements the command-line interface for solotube.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/sharelink"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/tui"
	"github.com/solotube/solotube/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, nerd, plain, kaomoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Save committed loops to history")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	addSourceFlags(rootCmd)

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

var rootCmd = &cobra.Command{
	Use:   constant.Solotube + " [video]",
	Short: "Loop sections of a video to practice along",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.Red).Render("    - Loop sections of a video to practice along"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options, err := rootOptions(cmd, args)
		handleErr(err)

		CheckDependencies()
		handleErr(tui.Run(options))
	},
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("start", "s", 0, "Loop start in seconds")
	cmd.Flags().Float64P("end", "e", 0, "Loop end in seconds")
	cmd.Flags().StringP("link", "l", "", "Open a share link")
	cmd.Flags().BoolP("continue", "c", false, "Reopen the most recently practiced loop")

	cmd.MarkFlagsMutuallyExclusive("link", "continue")
	cmd.MarkFlagsMutuallyExclusive("start", "link")
	cmd.MarkFlagsMutuallyExclusive("end", "link")
}

// rootOptions turns the command line into what the interface should open.
func rootOptions(cmd *cobra.Command, args []string) (*tui.Options, error) {
	options := &tui.Options{
		Continue: lo.Must(cmd.Flags().GetBool("continue")),
	}

	if link := lo.Must(cmd.Flags().GetString("link")); link != "" {
		if len(args) > 0 {
			return nil, errors.New("give either a video or --link, not both")
		}
		parsed, err := sharelink.Parse(link)
		if err != nil {
			return nil, err
		}
		if err := parsed.Validate(); err != nil {
			return nil, err
		}
		options.Source = link
		return options, nil
	}

	if len(args) > 0 {
		options.Source = args[0]
	}

	for _, bound := range []struct {
		name   string
		target *mo.Option[float64]
	}{
		{"start", &options.Start},
		{"end", &options.End},
	} {
		if !cmd.Flags().Changed(bound.name) {
			continue
		}
		if options.Source == "" {
			return nil, fmt.Errorf("--%s needs a video", bound.name)
		}
		*bound.target = mo.Some(lo.Must(cmd.Flags().GetFloat64(bound.name)))
	}

	return options, nil
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

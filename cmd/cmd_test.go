package cmd

import (
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/solotube/solotube/config"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/sharelink"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func sourceCommand(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addSourceFlags(cmd)
	So(cmd.ParseFlags(args), ShouldBeNil)
	return cmd
}

func TestRootOptions(t *testing.T) {
	Convey("Given a video with loop bounds", t, func() {
		cmd := sourceCommand("--start", "50", "--end", "100")
		options, err := rootOptions(cmd, []string{"abc123"})

		So(err, ShouldBeNil)
		So(options.Source, ShouldEqual, "abc123")
		So(options.Start, ShouldResemble, mo.Some(50.0))
		So(options.End, ShouldResemble, mo.Some(100.0))
	})

	Convey("Given only a video", t, func() {
		options, err := rootOptions(sourceCommand(), []string{"abc123"})

		So(err, ShouldBeNil)
		So(options.Start.IsPresent(), ShouldBeFalse)
		So(options.End.IsPresent(), ShouldBeFalse)
	})

	Convey("Given bounds without a video", t, func() {
		_, err := rootOptions(sourceCommand("--end", "10"), nil)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a share link", t, func() {
		raw := "https://solotube.app/?v=abc123&start=50&end=100"
		options, err := rootOptions(sourceCommand("--link", raw), nil)

		So(err, ShouldBeNil)
		So(options.Source, ShouldEqual, raw)
	})

	Convey("Given a share link with reversed bounds", t, func() {
		_, err := rootOptions(sourceCommand("--link", "https://solotube.app/?v=abc123&start=100&end=50"), nil)
		So(errors.Is(err, sharelink.ErrInvalid), ShouldBeTrue)
	})

	Convey("Given a share link and a video", t, func() {
		_, err := rootOptions(sourceCommand("--link", "https://youtu.be/abc123"), []string{"abc123"})
		So(err, ShouldNotBeNil)
	})

	Convey("Given continue", t, func() {
		options, err := rootOptions(sourceCommand("--continue"), nil)
		So(err, ShouldBeNil)
		So(options.Continue, ShouldBeTrue)
	})
}

func TestParseValue(t *testing.T) {
	Convey("Values take the type of the default", t, func() {
		v, err := parseValue(config.Default[key.SpeedStep], []string{"0.05"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 0.05)

		v, err = parseValue(config.Default[key.PlayerFPS], []string{"30"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 30)

		v, err = parseValue(config.Default[key.PlayerSpaceToggle], []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue(config.Default[key.PlayerMPVArgs], []string{"--no-audio", "--mute"})
		So(err, ShouldBeNil)
		So(v, ShouldResemble, []string{"--no-audio", "--mute"})
	})

	Convey("Malformed values fail", t, func() {
		_, err := parseValue(config.Default[key.PlayerFPS], []string{"fast"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(config.Default[key.PlayerFPS], nil)
		So(err, ShouldNotBeNil)
	})
}

func TestUnknownKey(t *testing.T) {
	Convey("Unknown keys suggest the closest one", t, func() {
		err := errUnknownKey("speed.stpe")
		So(err.Error(), ShouldContainSubstring, key.SpeedStep)
	})
}

func TestInstallHint(t *testing.T) {
	Convey("Every supported platform has an install hint", t, func() {
		for _, goos := range []string{"darwin", "linux", "windows", "android"} {
			So(installHint(goos), ShouldNotBeEmpty)
		}
		So(installHint("plan9"), ShouldBeEmpty)
	})
}

func TestEntryLink(t *testing.T) {
	Convey("Given a saved loop", t, func() {
		viper.Set(key.LinkBase, "https://solotube.app/")
		defer viper.Set(key.LinkBase, nil)

		So(history.Clear(), ShouldBeNil)
		So(history.Record(history.Entry{SourceID: "abc123", Start: 50, End: 100}), ShouldBeNil)

		Convey("Then its share link carries the bounds", func() {
			So(entryLink(mustEntry("abc123")), ShouldEqual, "https://solotube.app/?v=abc123&start=50&end=100")
		})
	})
}

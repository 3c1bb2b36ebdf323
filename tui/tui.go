package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/player"
	"github.com/solotube/solotube/sched"
)

// Options is what the command line asked the interface to open.
type Options struct {
	// Source is a video id, a link or a local file.
	Source string
	// Start and End turn Source into a fully specified loop.
	Start, End mo.Option[float64]
	// Continue reopens the most recently practiced loop.
	Continue bool
}

// Run starts mpv and runs the interface until the user quits.
func Run(options *Options) error {
	mpv := player.NewMPVFromConfig()
	if err := mpv.Start(); err != nil {
		return err
	}
	defer func() {
		if err := mpv.Close(); err != nil {
			log.For("tui").Warnf("closing mpv: %v", err)
		}
	}()

	loop := sched.NewLoop()
	defer loop.Close()
	c := newCore(mpv, loop)
	c.queue = loop.C()
	c.closed = loop.Done()
	c.exited = mpv.Wait()
	defer c.store.Dispose()

	bubble := newBubble(c, options)
	if err := bubble.open(options); err != nil {
		return err
	}

	model, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if b, ok := model.(*statefulBubble); ok && b.exitErr != nil {
		return b.exitErr
	}
	return nil
}

var errPlayerExited = errors.New("mpv exited")

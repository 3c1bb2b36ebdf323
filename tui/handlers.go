package tui

import (
	"errors"
	"math"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/solotube/solotube/controller"
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/internal/ui"
	"github.com/solotube/solotube/open"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/sharelink"
)

var errNoHistory = errors.New("no practiced loops yet")

// scheduledMsg carries a callback fired by the playback scheduler.
type scheduledMsg func()

type playerExitedMsg struct{}

func (b *statefulBubble) waitForScheduled() tea.Cmd {
	if b.core.queue == nil {
		return nil
	}

	return func() tea.Msg {
		select {
		case fn := <-b.core.queue:
			return scheduledMsg(fn)
		case <-b.core.closed:
			return nil
		}
	}
}

func (b *statefulBubble) waitForPlayerExit() tea.Cmd {
	if b.core.exited == nil {
		return nil
	}

	return func() tea.Msg {
		<-b.core.exited
		return playerExitedMsg{}
	}
}

// open starts on whatever the command line asked for.
func (b *statefulBubble) open(options *Options) error {
	c := b.core.controller

	var err error
	switch {
	case options.Continue:
		entry, ok, e := history.Latest()
		if e != nil {
			return e
		}
		if !ok {
			return errNoHistory
		}
		err = c.Open(entryLink(entry))
	case options.Source != "" && (options.Start.IsPresent() || options.End.IsPresent()):
		err = c.Open(optionsLink(options))
	case options.Source != "":
		err = c.Submit(options.Source)
	default:
		return nil
	}

	if err != nil {
		return err
	}

	b.follow()
	return nil
}

func optionsLink(options *Options) sharelink.Link {
	link, err := sharelink.Parse(options.Source)
	if err != nil {
		link = sharelink.Link{SourceID: options.Source}
	}

	link.HasBounds = true
	link.Start = options.Start.OrElse(0)
	link.End = options.End.OrElse(math.NaN())
	return link
}

func entryLink(entry *history.Entry) sharelink.Link {
	return sharelink.New(entry.SourceID, playback.Bounds{Start: entry.Start, End: entry.End})
}

func (b *statefulBubble) loadHistory() (tea.Cmd, error) {
	entries, err := history.List()
	if err != nil {
		return nil, err
	}

	items := lo.Map(entries, func(e *history.Entry, _ int) list.Item {
		return &listItem{internal: e}
	})

	return b.historyC.SetItems(items), nil
}

func (b *statefulBubble) openEntry(entry *history.Entry) tea.Cmd {
	if err := b.core.controller.Open(entryLink(entry)); err != nil {
		return ui.Notify(icon.Get(icon.Fail) + " " + err.Error())
	}

	b.statesHistory.Clear()
	b.follow()
	return nil
}

func (b *statefulBubble) removeEntry(entry *history.Entry) tea.Cmd {
	removed, err := history.Remove(entry.SourceID)
	if err != nil {
		b.raiseError(err)
		return nil
	}
	if !removed {
		return nil
	}

	b.historyC.RemoveItem(b.historyC.GlobalIndex())
	return ui.Notify(icon.Get(icon.Success) + " removed " + entry.Display())
}

func (b *statefulBubble) copyLink() tea.Cmd {
	link, ok := b.core.controller.Link()
	if !ok {
		return nil
	}

	if err := clipboard.WriteAll(link); err != nil {
		return ui.Notify(icon.Get(icon.Fail) + " " + err.Error())
	}
	return ui.Notify(icon.Get(icon.Link) + " link copied")
}

func (b *statefulBubble) openLink() tea.Cmd {
	link, ok := b.core.controller.Link()
	if !ok {
		return nil
	}

	if err := open.Start(link); err != nil {
		return ui.Notify(icon.Get(icon.Fail) + " " + err.Error())
	}
	return nil
}

// explain turns controller refusals into a notification.
func explain(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrNoDuration):
		return ui.Notify(icon.Get(icon.Progress) + " still loading")
	default:
		return ui.Notify(icon.Get(icon.Fail) + " " + err.Error())
	}
}

package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/controller"
	"github.com/solotube/solotube/history"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case scheduledMsg:
		if msg != nil {
			msg()
		}
		b.checkFailure()
		return b, tea.Batch(cmd, b.waitForScheduled())
	case playerExitedMsg:
		b.exitErr = errPlayerExited
		return b, tea.Quit
	case spinner.TickMsg:
		var spinnerCmd tea.Cmd
		b.spinnerC, spinnerCmd = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, spinnerCmd)
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case inputState:
		return b.updateInput(msg, cmd)
	case selectState:
		return b.updateSelect(msg, cmd)
	case confirmState:
		return b.updateConfirm(msg, cmd)
	case loopState:
		return b.updateLoop(msg, cmd)
	case historyState:
		return b.updateHistory(msg, cmd)
	case errorState:
		return b.updateError(msg, cmd)
	}

	return b, cmd
}

// checkFailure raises the error view when the widget failed.
func (b *statefulBubble) checkFailure() {
	if b.snapshot.Err != nil && b.state != errorState {
		b.raiseError(b.snapshot.Err)
	}
}

func (b *statefulBubble) updateInput(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			value := b.inputC.Value()
			if err := b.core.controller.Submit(value); err != nil {
				return b, tea.Batch(cmd, explain(err))
			}
			b.remember(value)
			b.inputC.Blur()
			b.follow()
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.history):
			listCmd, err := b.loadHistory()
			if err != nil {
				b.raiseError(err)
				return b, cmd
			}
			b.newState(historyState)
			return b, tea.Batch(cmd, listCmd)
		}
	}

	var inputCmd tea.Cmd
	b.inputC, inputCmd = b.inputC.Update(msg)
	return b, tea.Batch(cmd, inputCmd)
}

func (b *statefulBubble) updateSelect(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, cmd
	}

	c := b.core.controller
	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.reset()
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.switchHandle):
		if b.activeHandle == controller.StartHandle {
			b.activeHandle = controller.EndHandle
		} else {
			b.activeHandle = controller.StartHandle
		}
	case bubblesKey.Matches(keyMsg, b.keymap.coarseLeft):
		c.Move(b.activeHandle, -constant.ScrubberCoarseStep)
	case bubblesKey.Matches(keyMsg, b.keymap.coarseRight):
		c.Move(b.activeHandle, constant.ScrubberCoarseStep)
	case bubblesKey.Matches(keyMsg, b.keymap.left):
		c.Move(b.activeHandle, -constant.ScrubberStep)
	case bubblesKey.Matches(keyMsg, b.keymap.right):
		c.Move(b.activeHandle, constant.ScrubberStep)
	case bubblesKey.Matches(keyMsg, b.keymap.confirm):
		if err := c.Commit(); err != nil {
			return b, tea.Batch(cmd, explain(err))
		}
		b.follow()
	}

	return b, cmd
}

func (b *statefulBubble) updateConfirm(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.reset()
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.confirm):
		if err := b.core.controller.Confirm(); err != nil {
			return b, tea.Batch(cmd, explain(err))
		}
		b.follow()
	}

	return b, cmd
}

func (b *statefulBubble) updateLoop(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, cmd
	}

	c := b.core.controller
	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		b.reset()
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.speedUp):
		c.Handle(controller.SpeedUp)
	case bubblesKey.Matches(keyMsg, b.keymap.speedDown):
		c.Handle(controller.SpeedDown)
	case bubblesKey.Matches(keyMsg, b.keymap.restart):
		c.Handle(controller.Restart)
	case bubblesKey.Matches(keyMsg, b.keymap.resetSpeed):
		c.Handle(controller.ResetSpeed)
	case bubblesKey.Matches(keyMsg, b.keymap.playPause):
		c.Handle(controller.TogglePlay)
	case bubblesKey.Matches(keyMsg, b.keymap.copyLink):
		return b, tea.Batch(cmd, b.copyLink())
	case bubblesKey.Matches(keyMsg, b.keymap.openLink):
		return b, tea.Batch(cmd, b.openLink())
	}

	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.historyC.FilterState() != list.Filtering {
		selected := func() (*history.Entry, bool) {
			item, ok := b.historyC.SelectedItem().(*listItem)
			if !ok {
				return nil, false
			}
			entry, ok := item.internal.(*history.Entry)
			return entry, ok
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back) && b.historyC.FilterState() == list.Unfiltered:
			b.previousState()
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if entry, ok := selected(); ok {
				return b, tea.Batch(cmd, b.openEntry(entry))
			}
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.remove):
			if entry, ok := selected(); ok {
				return b, tea.Batch(cmd, b.removeEntry(entry))
			}
			return b, cmd
		}
	}

	var listCmd tea.Cmd
	b.historyC, listCmd = b.historyC.Update(msg)
	return b, tea.Batch(cmd, listCmd)
}

func (b *statefulBubble) updateError(msg tea.Msg, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.reset()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, cmd
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/style"
)

// statefulKeymap defines the keys available in each state.
type statefulKeymap struct {
	state       state
	spaceToggle bool

	quit, forceQuit,
	confirm, back,
	history, remove,
	left, right, coarseLeft, coarseRight, switchHandle,
	speedUp, speedDown, restart, resetSpeed, playPause,
	copyLink, openLink,
	up, down, top, bottom, filter,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap(spaceToggle bool) *statefulKeymap {
	return &statefulKeymap{
		spaceToggle: spaceToggle,
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		history: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "history"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "earlier"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "later"),
		),
		coarseLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("shift+←", "much earlier"),
		),
		coarseRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("shift+→", "much later"),
		),
		switchHandle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch handle"),
		),
		speedUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "faster"),
		),
		speedDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "slower"),
		),
		restart: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "restart loop"),
		),
		resetSpeed: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset speed"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		copyLink: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp(style.Fg(color.Orange)("c"), style.Fg(color.Orange)("copy link")),
		),
		openLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case inputState:
		return to2(h(withDescription(k.confirm, "load"), k.history, k.forceQuit))
	case selectState:
		commit := withDescription(k.confirm, "commit loop")
		return h(k.left, k.right, k.switchHandle, commit, k.back),
			h(k.left, k.right, k.coarseLeft, k.coarseRight, k.switchHandle, commit, k.back)
	case confirmState:
		return to2(h(withDescription(k.confirm, "start loop"), k.back))
	case loopState:
		short := h(k.speedUp, k.speedDown, k.restart, k.resetSpeed)
		if k.spaceToggle {
			short = append(short, k.playPause)
		}
		return short, append(short, k.copyLink, k.openLink, k.back, k.quit)
	case historyState:
		return to2(h(withDescription(k.confirm, "open"), k.remove, k.back))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}

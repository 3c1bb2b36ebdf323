// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/solotube/solotube/constant"
	"github.com/solotube/solotube/controller"
	"github.com/solotube/solotube/internal/ui"
	"github.com/solotube/solotube/key"
	"github.com/solotube/solotube/log"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/player"
	"github.com/solotube/solotube/query"
	"github.com/solotube/solotube/sched"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/timing"
	"github.com/solotube/solotube/util"
	"github.com/spf13/viper"
)

// core is the playback machinery the interface drives. Everything in it runs on the
// bubble's Update goroutine.
type core struct {
	scheduler  sched.Scheduler
	queue      <-chan func()
	closed     <-chan struct{}
	exited     <-chan struct{}
	store      *playback.Store
	adapter    *player.Adapter
	tracker    *timing.Tracker
	controller *controller.Controller
}

func newCore(library player.Library, scheduler sched.Scheduler) *core {
	store := playback.NewStore()
	adapter := player.NewAdapter(library, scheduler, store, player.OptionsFromConfig())
	tracker := timing.New(scheduler, adapter, store, viper.GetInt(key.PlayerFPS))
	store.Bind(adapter, tracker)

	return &core{
		scheduler:  scheduler,
		store:      store,
		adapter:    adapter,
		tracker:    tracker,
		controller: controller.New(scheduler, adapter, store, controller.OptionsFromConfig()),
	}
}

// statefulBubble holds the interface state on top of the playback core.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC spinner.Model
	inputC   textinput.Model
	historyC list.Model
	helpC    help.Model

	core     *core
	snapshot playback.State
	position float64

	activeHandle controller.Handle
	showTimer    bool

	lastError     error
	exitErr       error
	width, height int
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// playback states are left through esc, not through the navigation stack
	if !lo.Contains([]state{selectState, confirmState, loopState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// follow moves the interface to the view matching the controller.
func (b *statefulBubble) follow() {
	var next state
	switch b.core.controller.State() {
	case controller.NoVideo:
		next = inputState
	case controller.NoLoopPoints:
		next = selectState
	case controller.FromURL:
		next = confirmState
	case controller.Ready:
		next = loopState
	}

	if next != b.state {
		b.statesHistory.Clear()
		b.setState(next)
	}
}

// reset tears the loaded video down and returns to the input view.
func (b *statefulBubble) reset() {
	b.core.controller.Reset()
	b.activeHandle = controller.StartHandle
	b.position = 0
	b.lastError = nil
	b.inputC.SetValue("")
	b.inputC.Focus()
	b.statesHistory.Clear()
	b.setState(inputState)
}

// remember keeps a submitted source around as an input suggestion.
func (b *statefulBubble) remember(source string) {
	if !b.inputC.ShowSuggestions {
		return
	}
	if err := query.Remember(source, 1); err != nil {
		log.For("tui").Warnf("remembering %q: %v", source, err)
		return
	}
	b.refreshSuggestions()
}

func (b *statefulBubble) refreshSuggestions() {
	if b.inputC.ShowSuggestions {
		b.inputC.SetSuggestions(query.Recent())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.inputC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(c *core, options *Options) *statefulBubble {
	spaceToggle := viper.GetBool(key.PlayerSpaceToggle)
	bubble := &statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        newStatefulKeymap(spaceToggle),
		core:          c,
		showTimer:     viper.GetBool(key.TUIShowTimer),
		notifier:      &ui.Model{},
		options:       options,
	}

	c.store.Subscribe(func(s playback.State) {
		bubble.snapshot = s
	})
	if bubble.showTimer {
		c.tracker.Observe(func(seconds float64) {
			bubble.position = seconds
		})
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "video id, link or file (v" + constant.Version + ")"
	bubble.inputC.CharLimit = 512
	bubble.inputC.Prompt = "> "
	bubble.inputC.ShowSuggestions = viper.GetBool(key.TUIShowSuggestions)
	bubble.inputC.KeyMap.AcceptSuggestion = bubblesKey.NewBinding(bubblesKey.WithKeys("ctrl+f"))
	bubble.refreshSuggestions()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.historyC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.historyC.KeyMap = bubble.keymap.forList()
	bubble.historyC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.historyC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.historyC.Title = "History"
	bubble.historyC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1)
	bubble.historyC.Styles.NoItems = paddingStyle
	bubble.historyC.StatusMessageLifetime = 3 * time.Second
	bubble.historyC.SetStatusBarItemName("loop", "loops")
	bubble.historyC.SetShowPagination(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return bubble
}

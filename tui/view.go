package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/solotube/solotube/color"
	"github.com/solotube/solotube/controller"
	"github.com/solotube/solotube/icon"
	"github.com/solotube/solotube/playback"
	"github.com/solotube/solotube/style"
	"github.com/solotube/solotube/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

const minBarWidth = 20

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case inputState:
		output = b.viewInput()
	case selectState:
		output = b.viewSelect()
	case confirmState:
		output = b.viewConfirm()
	case loopState:
		output = b.viewLoop()
	case historyState:
		output = b.viewHistory()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewInput() string {
	return b.renderLines(true, []string{
		style.Title("Solotube"),
		"",
		"Paste a video id, a YouTube link or a solotube link",
		"",
		b.inputC.View(),
	})
}

func (b *statefulBubble) viewSelect() string {
	lines := []string{style.Title("Select Loop"), ""}

	if !b.snapshot.Ready {
		return b.renderLines(true, append(lines, b.spinnerC.View()+" Loading "+b.sourceName()))
	}

	scrubber := b.core.controller.Scrubber()
	duration := b.snapshot.Duration

	lines = append(lines,
		b.header(),
		"",
		b.scrubberBar(scrubber),
		"",
		fmt.Sprintf(
			"%s %s  %s  %s",
			icon.Get(icon.Loop),
			b.handleLabel(controller.StartHandle, util.FormatClock(scrubber.Start/100*duration)),
			style.Faint("→"),
			b.handleLabel(controller.EndHandle, util.FormatClock(scrubber.End/100*duration)),
		),
	)

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewConfirm() string {
	lines := []string{style.Title("Open Link"), ""}

	link, ok := b.core.controller.Pending().Get()
	if !ok {
		return b.renderLines(true, lines)
	}

	if !b.snapshot.Ready {
		return b.renderLines(true, append(lines, b.spinnerC.View()+" Loading "+b.sourceName()))
	}

	bounds, valid := link.Bounds(b.snapshot.Duration)
	span := fmt.Sprintf("%s %s", icon.Get(icon.Loop), bounds)
	if !valid {
		span += " " + style.Fg(color.Yellow)("(the link's loop does not fit, looping the whole video)")
	}

	return b.renderLines(true, append(lines, b.header(), "", span, "", style.Faint("Start this loop?")))
}

func (b *statefulBubble) viewLoop() string {
	lines := []string{style.Title("Looping"), "", b.header(), ""}

	if bounds, ok := b.snapshot.LoopBounds.Get(); ok {
		lines = append(lines, b.loopBar(bounds), "", fmt.Sprintf("%s %s", icon.Get(icon.Loop), bounds))
	}

	status := icon.Get(icon.Pause) + " paused"
	if b.snapshot.Playing {
		status = icon.Get(icon.Play) + " playing"
	}

	lines = append(lines,
		fmt.Sprintf("%s %s", icon.Get(icon.Speed), style.Fg(color.Orange)(fmt.Sprintf("%.3f×", b.core.controller.Speed()))),
		status,
	)

	if b.showTimer {
		lines = append(lines, style.Faint(util.FormatClock(b.position)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewError() string {
	errorBody := style.Fg(style.ErrorColor)(b.lastError.Error())
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Playback failed:",
			"",
			wrap.String(errorBody, b.width),
		},
	)
}

// header names the loaded video and whatever metadata is known about it.
func (b *statefulBubble) header() string {
	var parts []string
	if author, ok := b.snapshot.Author.Get(); ok {
		parts = append(parts, author)
	}
	if quality, ok := b.snapshot.Quality.Get(); ok {
		parts = append(parts, quality)
	}
	parts = append(parts, util.FormatClock(b.snapshot.Duration))

	return style.Truncate(b.width)(fmt.Sprintf(
		"%s %s",
		style.Fg(color.Purple)(b.sourceName()),
		style.Faint(strings.Join(parts, " • ")),
	))
}

func (b *statefulBubble) sourceName() string {
	if name := b.snapshot.Name(); name != "" {
		return name
	}
	return b.core.controller.Input()
}

func (b *statefulBubble) handleLabel(h controller.Handle, text string) string {
	return style.Handle(h == b.activeHandle)(text)
}

func (b *statefulBubble) barWidth() int {
	return max(b.width, minBarWidth)
}

// scrubberBar draws the selection with both handles on a track of the view's width.
func (b *statefulBubble) scrubberBar(s controller.Scrubber) string {
	width := b.barWidth()
	start := cell(s.Start/100, width)
	end := cell(s.End/100, width)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == start:
			sb.WriteString(style.Handle(b.activeHandle == controller.StartHandle)("┃"))
		case i == end:
			sb.WriteString(style.Handle(b.activeHandle == controller.EndHandle)("┃"))
		case i > start && i < end:
			sb.WriteString(style.Selected("━"))
		default:
			sb.WriteString(style.Track("─"))
		}
	}
	return sb.String()
}

// loopBar draws the loop on the video timeline with the playhead inside it.
func (b *statefulBubble) loopBar(bounds playback.Bounds) string {
	duration := b.snapshot.Duration
	if duration <= 0 {
		return ""
	}

	width := b.barWidth()
	start := cell(bounds.Start/duration, width)
	end := cell(bounds.End/duration, width)
	head := cell(b.core.tracker.Current()/duration, width)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == head:
			sb.WriteString(style.Handle(true)("●"))
		case i >= start && i <= end:
			sb.WriteString(style.Selected("━"))
		default:
			sb.WriteString(style.Track("─"))
		}
	}
	return sb.String()
}

func cell(fraction float64, width int) int {
	return util.Clamp(int(math.Round(fraction*float64(width-1))), 0, width-1)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

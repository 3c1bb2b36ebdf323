// Package ui renders short-lived notifications under the active view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/solotube/solotube/style"
)

const lifetime = 3 * time.Second

// Model holds the notification being shown.
type Model struct {
	notification string
	shownAt      time.Time
}

// NotificationMsg asks the model to show a message.
type NotificationMsg string

// ClearNotificationMsg hides the message shown at the given time.
type ClearNotificationMsg struct {
	shownAt time.Time
}

// Notify returns a command that shows message.
func Notify(message string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(message)
	}
}

func clearAfter(shownAt time.Time) tea.Cmd {
	return tea.Tick(lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{shownAt: shownAt}
	})
}

// Update handles notification messages. A clear only hides the message it was issued for.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.shownAt = time.Now()
		return clearAfter(m.shownAt)
	case ClearNotificationMsg:
		if msg.shownAt.Equal(m.shownAt) {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the message being shown.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}

package tui

import (
	"github.com/solotube/solotube/history"
	"github.com/solotube/solotube/style"
)

// listItem implements list.Item for history entries.
type listItem struct {
	internal any
}

func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case *history.Entry:
		return e.Display()
	case string:
		return e
	default:
		return ""
	}
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case *history.Entry:
		return e.Span() + " " + style.Faint(e.SavedAt.Format("2006-01-02 15:04"))
	default:
		return ""
	}
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *history.Entry:
		return e.Name + " " + e.SourceID
	case string:
		return e
	default:
		return ""
	}
}

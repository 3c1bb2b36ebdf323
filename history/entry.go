package history

import (
	"fmt"
	"time"

	"github.com/solotube/solotube/util"
)

// Entry is one practiced loop.
type Entry struct {
	Name     string    `json:"name"`
	SourceID string    `json:"source_id"`
	Start    float64   `json:"start"`
	End      float64   `json:"end"`
	SavedAt  time.Time `json:"saved_at"`
}

// Display is the name shown in lists, falling back to the source id.
func (e *Entry) Display() string {
	if e.Name != "" {
		return e.Name
	}
	return e.SourceID
}

// Span renders the loop bounds as clock times.
func (e *Entry) Span() string {
	return fmt.Sprintf("%s - %s", util.FormatClock(e.Start), util.FormatClock(e.End))
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s : %s", e.Display(), e.Span())
}

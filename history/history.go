// Package history persists practiced loops, most recent first, one entry per source.
package history

import (
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/where"
)

// cacher persists the entries through the swappable filesystem backend.
var cacher = gache.New[[]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// now is replaced in tests.
var now = time.Now

// List returns every entry, most recent first.
func List() ([]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Entry{}, nil
	}
	return cached, nil
}

// Record stores entry at the front, replacing any entry for the same source.
func Record(entry Entry) error {
	entries, err := List()
	if err != nil {
		return err
	}

	if entry.SavedAt.IsZero() {
		entry.SavedAt = now()
	}

	entries = lo.Reject(entries, func(e *Entry, _ int) bool {
		return e.SourceID == entry.SourceID
	})

	return cacher.Set(append([]*Entry{&entry}, entries...))
}

// Get returns the entry for sourceID.
func Get(sourceID string) (*Entry, bool, error) {
	entries, err := List()
	if err != nil {
		return nil, false, err
	}

	entry, ok := lo.Find(entries, func(e *Entry) bool {
		return e.SourceID == sourceID
	})
	return entry, ok, nil
}

// Latest returns the most recently recorded entry.
func Latest() (*Entry, bool, error) {
	entries, err := List()
	if err != nil || len(entries) == 0 {
		return nil, false, err
	}
	return entries[0], true, nil
}

// Remove deletes the entry for sourceID, reporting whether one existed.
func Remove(sourceID string) (bool, error) {
	entries, err := List()
	if err != nil {
		return false, err
	}

	kept := lo.Reject(entries, func(e *Entry, _ int) bool {
		return e.SourceID == sourceID
	})
	if len(kept) == len(entries) {
		return false, nil
	}

	return true, cacher.Set(kept)
}

// Clear deletes every entry.
func Clear() error {
	return cacher.Set([]*Entry{})
}

// Find returns the entries whose display name or source id fuzzily match query, best first.
func Find(query string) ([]*Entry, error) {
	entries, err := List()
	if err != nil || query == "" {
		return entries, err
	}

	targets := lo.Map(entries, func(e *Entry, _ int) string {
		return e.Display() + " " + e.SourceID
	})

	ranks := fuzzy.RankFindNormalizedFold(query, targets)
	sort.Sort(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) *Entry {
		return entries[r.OriginalIndex]
	}), nil
}

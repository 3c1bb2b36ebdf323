// Package query remembers what was typed into the source input and suggests it again.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/solotube/solotube/filesystem"
	"github.com/solotube/solotube/where"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember records an input, raising its rank by weight when it was seen before.
// Video ids are case sensitive, so inputs are only trimmed.
func Remember(q string, weight int) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	records := load()
	if r, ok := records[q]; ok {
		r.Rank += weight
	} else {
		records[q] = &record{Rank: weight, Query: q}
	}

	return cacher.Set(records)
}

func ranked(records []*record) []string {
	slices.SortStableFunc(records, func(a, b *record) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		return strings.Compare(a.Query, b.Query)
	})

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}

// Recent returns every remembered input, most used first.
func Recent() []string {
	return ranked(lo.Values(load()))
}

// SuggestMany returns the remembered inputs fuzzy matching q, most used first.
func SuggestMany(q string) []string {
	q = strings.TrimSpace(q)

	return ranked(lo.Filter(lo.Values(load()), func(r *record, _ int) bool {
		return fuzzy.MatchFold(q, r.Query)
	}))
}

// Suggest returns the best remembered input matching q.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// Forget drops every remembered input.
func Forget() error {
	return cacher.Set(make(map[string]*record))
}

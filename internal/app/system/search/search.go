// internal/app/system/search/search.go
package search

import (
	"net/http"
	"slices"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
)

// Query is the search box text and column sort a list page was asked for.
type Query struct {
	Text string
	Sort string
	Dir  string
}

// FromRequest reads ?q=, ?sort= and ?dir= from r. Dir is "asc" unless
// the request asked for "desc".
func FromRequest(r *http.Request) Query {
	q := Query{
		Text: strings.TrimSpace(query.Get(r, "q")),
		Sort: strings.ToLower(query.Get(r, "sort")),
		Dir:  "asc",
	}
	if strings.EqualFold(query.Get(r, "dir"), "desc") {
		q.Dir = "desc"
	}
	return q
}

// Desc reports whether the sort direction is descending.
func (q Query) Desc() bool { return q.Dir == "desc" }

// NextDir is the direction a column header link should request: it flips
// the current direction for the active column and starts ascending otherwise.
func (q Query) NextDir(column string) string {
	if q.Sort == column && !q.Desc() {
		return "desc"
	}
	return "asc"
}

// Filter keeps items where any field returned by fields contains needle,
// compared case and accent insensitively. An empty needle keeps everything.
func Filter[T any](items []T, needle string, fields func(T) []string) []T {
	n := text.Fold(strings.TrimSpace(needle))
	if n == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		for _, f := range fields(it) {
			if strings.Contains(text.Fold(f), n) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// SortBy stable-sorts items in place by the folded string key.
func SortBy[T any](items []T, desc bool, key func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := strings.Compare(text.Fold(key(a)), text.Fold(key(b)))
		if desc {
			return -c
		}
		return c
	})
}

// SortFunc stable-sorts items in place with a caller comparison.
func SortFunc[T any](items []T, desc bool, cmp func(a, b T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return -cmp(a, b)
		}
		return cmp(a, b)
	})
}

// SortMissingLast stable-sorts items with cmp, keeping items for which
// missing reports true at the end in either direction.
func SortMissingLast[T any](items []T, desc bool, missing func(T) bool, cmp func(a, b T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		ma, mb := missing(a), missing(b)
		switch {
		case ma && mb:
			return 0
		case ma:
			return 1
		case mb:
			return -1
		}
		if desc {
			return -cmp(a, b)
		}
		return cmp(a, b)
	})
}

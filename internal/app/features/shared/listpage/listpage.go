// Package listpage turns a settled listctl.Controller into the view model
// every collection page renders, and implements the confirmed delete flow
// those pages share.
package listpage

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/listctl"
	"github.com/dalemusser/clubhub/internal/app/system/paging"
	"github.com/dalemusser/clubhub/internal/app/system/search"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

// Sort is one sortable column. Missing may be nil.
type Sort[T any] struct {
	Compare func(a, b T) int
	Missing func(T) bool
}

// ByText sorts case and accent insensitively; blank values sort last.
func ByText[T any](key func(T) string) Sort[T] {
	return Sort[T]{
		Compare: func(a, b T) int { return strings.Compare(text.Fold(key(a)), text.Fold(key(b))) },
		Missing: func(t T) bool { return strings.TrimSpace(key(t)) == "" },
	}
}

// ByTime sorts chronologically; zero times sort last.
func ByTime[T any](key func(T) time.Time) Sort[T] {
	return Sort[T]{
		Compare: func(a, b T) int { return key(a).Compare(key(b)) },
		Missing: func(t T) bool { return key(t).IsZero() },
	}
}

// ByInt sorts numerically.
func ByInt[T any](key func(T) int) Sort[T] {
	return Sort[T]{Compare: func(a, b T) int { return cmp.Compare(key(a), key(b)) }}
}

// ByFloat sorts numerically.
func ByFloat[T any](key func(T) float64) Sort[T] {
	return Sort[T]{Compare: func(a, b T) int {
		switch x, y := key(a), key(b); {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}}
}

// ByBool sorts false before true.
func ByBool[T any](key func(T) bool) Sort[T] {
	return Sort[T]{Compare: func(a, b T) int {
		x, y := key(a), key(b)
		switch {
		case x == y:
			return 0
		case x:
			return 1
		}
		return -1
	}}
}

// Options describes how one kind is searched and sorted.
type Options[T any] struct {
	Kind        listctl.Kind
	Title       string           // plural heading, e.g. "Members"
	Fields      func(T) []string // text columns the search box matches
	Sorts       map[string]Sort[T]
	DefaultSort string
	Keep        func(T) bool // extra page filter, applied before search
	PageSize    int
}

// Page is the list portion of a collection page.
type Page[R any] struct {
	Kind    listctl.Kind
	Heading string

	Total    int // SummaryCount of the controller
	Shown    int // rows left after filters, before paging
	Filtered bool

	ShowList  bool
	ShowEmpty bool
	ShowError bool

	EmptyText    string
	ErrorMessage string
	Notices      []string

	Rows  []R
	Query search.Query
	Range paging.Range

	// SortURL maps a column key to the link its header should use.
	SortURL map[string]string
	// PrevURL and NextURL page through the rows, keeping search and sort.
	PrevURL string
	NextURL string
}

// Load runs ctl's one initial fetch bounded by timeouts.Medium. A failed
// fetch has already moved ctl to its error phase and notified; the error
// is returned so callers can spot a rejected session.
func Load[T any](ctx context.Context, ctl *listctl.Controller[T], log *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), log, "load "+ctl.Kind().Plural)
	defer cancel()
	return ctl.Load(ctx)
}

// Open builds a read-only controller for one page request and runs its
// fetch. ok is false when the API rejected the session and the browser
// has already been sent to sign in. Otherwise the caller must Dispose ctl.
func Open[T any](w http.ResponseWriter, r *http.Request, kind listctl.Kind, src listctl.Source[T], idOf func(T) string, log *zap.Logger) (ctl *listctl.Controller[T], notes *listctl.Collector, ok bool) {
	notes = &listctl.Collector{}
	ctl = listctl.New(kind, src, idOf, listctl.Never, notes, listctl.WithLogger(log))
	if err := Load(r.Context(), ctl, log); apiclient.IsUnauthorized(err) {
		ctl.Dispose()
		auth.RedirectToLogin(w, r)
		return nil, nil, false
	}
	return ctl, notes, true
}

// Select applies opt's filter, the search text and the requested sort to
// items and returns a new slice. The input is not modified.
func Select[T any](q search.Query, items []T, opt Options[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if opt.Keep == nil || opt.Keep(it) {
			out = append(out, it)
		}
	}
	if opt.Fields != nil {
		out = search.Filter(out, q.Text, opt.Fields)
	}

	key := q.Sort
	if _, ok := opt.Sorts[key]; !ok {
		key = opt.DefaultSort
	}
	if s, ok := opt.Sorts[key]; ok && s.Compare != nil {
		missing := s.Missing
		if missing == nil {
			missing = func(T) bool { return false }
		}
		search.SortMissingLast(out, q.Desc(), missing, s.Compare)
	}
	return out
}

// Build renders state into a Page. row maps one record to the template's
// row type. notices are the messages the controller's notifier collected.
func Build[T, R any](r *http.Request, st listctl.ViewState[T], notices []string, opt Options[T], row func(T) R) Page[R] {
	q := search.FromRequest(r)
	if _, ok := opt.Sorts[q.Sort]; !ok {
		q.Sort = opt.DefaultSort
	}

	p := Page[R]{
		Kind:    opt.Kind,
		Query:   q,
		Notices: notices,
		SortURL: make(map[string]string, len(opt.Sorts)),
	}
	for col := range opt.Sorts {
		p.SortURL[col] = link(r, url.Values{"sort": {col}, "dir": {q.NextDir(col)}, "start": nil})
	}

	switch st.Phase {
	case listctl.Failed:
		p.ShowError = true
		p.ErrorMessage = st.ErrorMessage
		p.Heading = opt.Title
		return p
	case listctl.Loading:
		// Handlers render only settled controllers.
		p.Heading = opt.Title
		return p
	}

	p.Total = len(st.Items)
	selected := Select(q, st.Items, opt)
	p.Shown = len(selected)
	p.Filtered = p.Shown != p.Total

	if p.Filtered {
		p.Heading = fmt.Sprintf("All %s (%d of %d)", opt.Title, p.Shown, p.Total)
	} else {
		p.Heading = fmt.Sprintf("All %s (%d)", opt.Title, p.Total)
	}

	if p.Shown == 0 {
		p.ShowEmpty = true
		switch {
		case p.Total == 0:
			p.EmptyText = "No " + opt.Kind.Plural + " found"
		case q.Text == "":
			p.EmptyText = "No " + opt.Kind.Plural + " match the selected filters"
		default:
			p.EmptyText = fmt.Sprintf("No %s found matching %q", opt.Kind.Plural, q.Text)
		}
		return p
	}

	window, rng := paging.Window(selected, paging.ParseStart(r), opt.PageSize)
	p.Range = rng
	p.ShowList = true
	p.Rows = make([]R, len(window))
	for i, it := range window {
		p.Rows[i] = row(it)
	}
	if rng.HasPrev {
		p.PrevURL = link(r, url.Values{"start": {strconv.Itoa(rng.PrevStart)}})
	}
	if rng.HasNext {
		p.NextURL = link(r, url.Values{"start": {strconv.Itoa(rng.NextStart)}})
	}
	return p
}

// link returns the request path with its query updated by set. A nil
// value removes the key.
func link(r *http.Request, set url.Values) string {
	q := r.URL.Query()
	for k, v := range set {
		if v == nil {
			q.Del(k)
			continue
		}
		q[k] = v
	}
	enc := q.Encode()
	if enc == "" {
		return r.URL.Path
	}
	return r.URL.Path + "?" + enc
}

// Capitalize upper-cases the first letter of a kind noun for flashes.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

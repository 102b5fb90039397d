// internal/app/system/listctl/types.go
package listctl

import (
	"context"
	"errors"
	"sync"
)

// Phase is the load state of a Controller.
type Phase int

const (
	Loading Phase = iota
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	}
	return "unknown"
}

// ViewState is a snapshot of a Controller. Items is meaningful only when
// Phase is Loaded; ErrorMessage only when Phase is Failed.
type ViewState[T any] struct {
	Phase        Phase
	Items        []T
	ErrorMessage string
}

// Empty reports the loaded-with-no-records state.
func (s ViewState[T]) Empty() bool {
	return s.Phase == Loaded && len(s.Items) == 0
}

// Source fetches and deletes records of one kind.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer gates destructive actions. It must answer synchronously;
// false blocks the action.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Always and Never are fixed answers, mostly for tests and read-only views.
var (
	Always Confirmer = ConfirmFunc(func(string) bool { return true })
	Never  Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Notifier surfaces a failure to the user.
type Notifier interface {
	NotifyError(message string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(message string)

func (f NotifyFunc) NotifyError(message string) { f(message) }

// Kind names a resource for user-facing messages.
type Kind struct {
	Singular string
	Plural   string
}

var (
	Members     = Kind{Singular: "member", Plural: "members"}
	Classes     = Kind{Singular: "class", Plural: "classes"}
	Instructors = Kind{Singular: "instructor", Plural: "instructors"}
	Clubs       = Kind{Singular: "club", Plural: "clubs"}
	Restaurants = Kind{Singular: "restaurant", Plural: "restaurants"}
	Offices     = Kind{Singular: "office", Plural: "offices"}

	Reservations   = Kind{Singular: "reservation", Plural: "reservations"}
	OfficeBookings = Kind{Singular: "booking", Plural: "bookings"}
)

func (k Kind) count(n int) string {
	if n == 1 {
		return k.Singular
	}
	return k.Plural
}

// Sentinel outcomes that are not API failures.
var (
	ErrAlreadyLoaded = errors.New("listctl: already loaded")
	ErrNotLoaded     = errors.New("listctl: not loaded")
	ErrNotListed     = errors.New("listctl: record not in list")
	ErrDeclined      = errors.New("listctl: confirmation declined")
	ErrDisposed      = errors.New("listctl: disposed")
	ErrSuperseded    = errors.New("listctl: superseded by a newer load")
)

// Collector is a Notifier that keeps every message for rendering later in
// the same request. Safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	msgs []string
}

func (c *Collector) NotifyError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, message)
}

// Messages returns a copy of the collected messages in arrival order.
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

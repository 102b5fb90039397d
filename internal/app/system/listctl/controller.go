// internal/app/system/listctl/controller.go
package listctl

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/clubhub/internal/app/system/apiclient"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelDeletes bounds the concurrent requests of one RemoveMany.
const maxParallelDeletes = 8

// Controller owns the lifecycle of one collection view. It is safe for
// concurrent use; Load, Refresh and Remove block only the caller.
type Controller[T any] struct {
	kind    Kind
	src     Source[T]
	idOf    func(T) string
	confirm Confirmer
	notify  Notifier
	log     *zap.Logger

	mu       sync.Mutex
	phase    Phase
	items    []T
	errMsg   string
	gen      uint64 // bumped on every load start; last started wins
	started  bool
	disposed bool
}

// Option customises a Controller.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger routes controller diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.log = logger }
}

// New returns a Controller in the Loading phase with no items. idOf
// extracts the API id of a record. A nil confirmer declines everything;
// a nil notifier drops notifications.
func New[T any](kind Kind, src Source[T], idOf func(T) string, confirm Confirmer, notify Notifier, opts ...Option) *Controller[T] {
	o := options{log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if confirm == nil {
		confirm = Never
	}
	if notify == nil {
		notify = NotifyFunc(func(string) {})
	}
	return &Controller[T]{
		kind:    kind,
		src:     src,
		idOf:    idOf,
		confirm: confirm,
		notify:  notify,
		log:     o.log,
		phase:   Loading,
	}
}

// Load performs the one initial fetch. A second call returns
// ErrAlreadyLoaded and changes nothing; use Refresh to re-fetch.
// A failed fetch moves to Failed, notifies once, and returns an error
// wrapping apiclient.ErrFetch.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.started = true
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Refresh re-fetches the collection, returning to Loading until the new
// fetch settles. Overlapping refreshes resolve last-started-wins.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.started = true
	c.mu.Unlock()
	return c.fetch(ctx)
}

func (c *Controller[T]) fetch(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = Loading
	c.items = nil
	c.errMsg = ""
	c.mu.Unlock()

	items, err := c.src.Fetch(ctx)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if gen != c.gen {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		msg := apiclient.Message(err)
		if msg == "" {
			msg = "Failed to load " + c.kind.Plural
		}
		c.phase = Failed
		c.items = nil
		c.errMsg = msg
		c.mu.Unlock()

		c.log.Warn("collection load failed",
			zap.String("kind", c.kind.Plural),
			zap.Error(err))
		c.notify.NotifyError(msg)
		return apiclient.AsFetch(err)
	}
	if items == nil {
		items = []T{}
	}
	unique := c.uniqueByID(items)
	c.phase = Loaded
	c.items = unique
	c.mu.Unlock()

	if dup := len(items) - len(unique); dup > 0 {
		c.log.Warn("collection load returned duplicate ids",
			zap.String("kind", c.kind.Plural),
			zap.Int("dropped", dup))
	}
	return nil
}

// Remove deletes the record with the given id after confirmation.
// Declining returns ErrDeclined with no other effect. On success exactly
// that record leaves the list and the remaining order is kept. On failure
// the list is untouched, the user is notified once, and the returned
// error wraps apiclient.ErrMutation.
func (c *Controller[T]) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if c.phase != Loaded || c.indexOf(id) < 0 {
		c.mu.Unlock()
		msg := fmt.Sprintf("Failed to delete %s: it is no longer in the list", c.kind.Singular)
		c.notify.NotifyError(msg)
		return ErrNotListed
	}
	c.mu.Unlock()

	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", c.kind.Singular)) {
		return ErrDeclined
	}

	err := c.src.Delete(ctx, id)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("delete failed",
			zap.String("kind", c.kind.Singular),
			zap.String("id", id),
			zap.Error(err))
		c.notify.NotifyError(fmt.Sprintf("Failed to delete %s: %s", c.kind.Singular, apiclient.Message(err)))
		return apiclient.AsMutation(err)
	}
	c.drop(id)
	c.mu.Unlock()
	return nil
}

// RemoveMany deletes several records behind a single confirmation. The
// deletes run concurrently; each success removes its own id. Any failures
// are reported in one notification and the returned error wraps
// apiclient.ErrMutation. Ids not in the list are rejected up front.
func (c *Controller[T]) RemoveMany(ctx context.Context, ids []string) (removed int, err error) {
	ids = dedupe(ids)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return 0, ErrDisposed
	}
	if c.phase != Loaded {
		c.mu.Unlock()
		return 0, ErrNotLoaded
	}
	for _, id := range ids {
		if c.indexOf(id) < 0 {
			c.mu.Unlock()
			c.notify.NotifyError(fmt.Sprintf("Failed to delete %s: one or more are no longer in the list", c.kind.Plural))
			return 0, ErrNotListed
		}
	}
	c.mu.Unlock()

	if len(ids) == 0 {
		return 0, nil
	}
	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete %d %s?", len(ids), c.kind.count(len(ids)))) {
		return 0, ErrDeclined
	}

	// Each delete records its own outcome; one failure must not cancel the rest.
	errs := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(maxParallelDeletes)
	for i, id := range ids {
		g.Go(func() error {
			errs[i] = c.src.Delete(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return 0, ErrDisposed
	}
	var failed []error
	for i, id := range ids {
		if errs[i] != nil {
			failed = append(failed, errs[i])
			continue
		}
		c.drop(id)
		removed++
	}
	c.mu.Unlock()

	if len(failed) == 0 {
		return removed, nil
	}
	c.log.Warn("bulk delete partially failed",
		zap.String("kind", c.kind.Plural),
		zap.Int("removed", removed),
		zap.Int("failed", len(failed)))
	c.notify.NotifyError(fmt.Sprintf("Failed to delete some %s: %s", c.kind.Plural, apiclient.Message(failed[0])))
	return removed, apiclient.AsMutation(errors.Join(failed...))
}

// SummaryCount is the number of distinct loaded records, or 0 when not
// Loaded.
func (c *Controller[T]) SummaryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Loaded {
		return 0
	}
	return len(c.items)
}

// State returns a copy of the current view state.
func (c *Controller[T]) State() ViewState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := ViewState[T]{Phase: c.phase, ErrorMessage: c.errMsg}
	if c.phase == Loaded {
		st.Items = append(make([]T, 0, len(c.items)), c.items...)
	}
	return st
}

// Kind returns the resource kind this controller manages.
func (c *Controller[T]) Kind() Kind { return c.kind }

// Dispose tears the controller down. Fetches and deletes that settle
// afterwards are dropped without touching state or notifying.
func (c *Controller[T]) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.mu.Unlock()
}

// indexOf requires c.mu.
func (c *Controller[T]) indexOf(id string) int {
	for i, it := range c.items {
		if c.idOf(it) == id {
			return i
		}
	}
	return -1
}

// uniqueByID keeps the first record for each id, in fetch order.
func (c *Controller[T]) uniqueByID(items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		id := c.idOf(it)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}
	return out
}

// drop removes id from items preserving order. Requires c.mu.
func (c *Controller[T]) drop(id string) {
	out := c.items[:0:0]
	for _, it := range c.items {
		if c.idOf(it) != id {
			out = append(out, it)
		}
	}
	c.items = out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package paging

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hook observes the outcome of every page fetch that is folded into state.
type Hook func(list string, page int, err error, elapsed time.Duration)

// Option configures a Controller.
type Option func(*options)

type options struct {
	name    string
	timeout time.Duration
	message func(error) string
	hook    Hook
	base    context.Context
}

// WithName labels the controller in logs and hooks.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithTimeout bounds every fetch.
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithErrorMessage converts fetch errors into the text stored in State.ErrorMessage.
func WithErrorMessage(fn func(error) string) Option { return func(o *options) { o.message = fn } }

// WithHook registers a fetch observer.
func WithHook(h Hook) Option { return func(o *options) { o.hook = h } }

// WithContext sets the parent context of every fetch.
func WithContext(ctx context.Context) Option { return func(o *options) { o.base = ctx } }

type listener[T any] struct {
	id int
	fn func(State[T])
}

// Controller accumulates a remote list page by page.
//
// At most one fetch is live at a time. FetchNextPage calls made while a fetch
// is in flight return without touching state, so it is safe to call it for
// every row that becomes visible. ResetAndFetch abandons the in-flight fetch:
// its context is cancelled and its result, should it still arrive, is dropped.
type Controller[T, Q any] struct {
	fetch    FetchFunc[T, Q]
	pageSize int
	opts     options

	mu        sync.Mutex
	state     State[T]
	known     bool // TotalCount came from a successful fetch of this generation
	gen       uint64
	cancel    context.CancelFunc
	query     Q
	closed    bool
	listeners []listener[T]
	nextID    int
	inflight  sync.WaitGroup

	// pub serialises state changes with their delivery so observers see
	// snapshots in the order they were produced.
	pub sync.Mutex
}

// New creates a controller that requests pageSize items per page.
func New[T, Q any](fetch FetchFunc[T, Q], pageSize int, opts ...Option) *Controller[T, Q] {
	if pageSize <= 0 {
		panic("paging: pageSize must be positive")
	}
	o := options{
		name:    "list",
		message: func(err error) string { return err.Error() },
		base:    context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T, Q]{
		fetch:    fetch,
		pageSize: pageSize,
		opts:     o,
		state:    State[T]{CurrentPage: 1},
	}
}

// PageSize returns the number of items requested per page.
func (c *Controller[T, Q]) PageSize() int { return c.pageSize }

// State returns a snapshot of the current state.
func (c *Controller[T, Q]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Items returns a copy of the accumulated items.
func (c *Controller[T, Q]) Items() []T {
	return c.State().Items
}

// HasMore reports whether another page may exist. A successful fetch that
// reports a total of zero ends the list.
func (c *Controller[T, Q]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.exhaustedLocked()
}

// Subscribe registers fn to receive every published snapshot. Listeners run
// synchronously on the goroutine that changed the state and must not call
// back into the controller from inside fn.
func (c *Controller[T, Q]) Subscribe(fn func(State[T])) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener[T]{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listeners = slices.DeleteFunc(c.listeners, func(l listener[T]) bool { return l.id == id })
	}
}

// ResetAndFetch clears the list, publishes the empty state, then fetches
// the first page for query.
func (c *Controller[T, Q]) ResetAndFetch(query Q) {
	c.update(func(s *State[T]) bool {
		if c.closed {
			return false
		}
		c.gen++
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		*s = State[T]{CurrentPage: 1}
		c.known = false
		c.query = query
		return true
	})
	c.FetchNextPage(query)
}

// Refresh is ResetAndFetch with the query of the most recent fetch.
func (c *Controller[T, Q]) Refresh() {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	c.ResetAndFetch(q)
}

// Next is FetchNextPage with the query of the most recent fetch.
func (c *Controller[T, Q]) Next() {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	c.FetchNextPage(q)
}

// FetchNextPage requests the next page unless a fetch is already in flight
// or the list is exhausted. It returns immediately; the result is folded
// into state when it arrives. Once a fetch of the current generation has
// succeeded, the list is exhausted after ceil(total/pageSize) pages, so an
// empty result is terminal until the next reset.
func (c *Controller[T, Q]) FetchNextPage(query Q) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		gen    uint64
		page   int
	)
	started := false
	c.update(func(s *State[T]) bool {
		if c.closed || s.IsFetching || c.exhaustedLocked() {
			return false
		}
		s.IsFetching = true
		s.IsLoading = true
		s.ErrorMessage = ""

		ctx, cancel = context.WithCancel(c.opts.base)
		c.cancel = cancel
		c.query = query
		gen, page = c.gen, s.CurrentPage
		c.inflight.Add(1)
		started = true
		return true
	})
	if !started {
		return
	}
	go c.run(ctx, cancel, gen, query, page)
}

// Modify replaces the item list with fn's result and publishes it. fn
// receives a private copy.
func (c *Controller[T, Q]) Modify(fn func(items []T) []T) {
	c.update(func(s *State[T]) bool {
		s.Items = fn(slices.Clone(s.Items))
		return true
	})
}

// Generation identifies the current list. It changes on every
// ResetAndFetch, Refresh and Close.
func (c *Controller[T, Q]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// ModifyAt is Modify for the list of generation gen. It reports false, and
// leaves state alone, when the list has been reset since.
func (c *Controller[T, Q]) ModifyAt(gen uint64, fn func(items []T) []T) bool {
	applied := false
	c.update(func(s *State[T]) bool {
		if c.gen != gen {
			return false
		}
		s.Items = fn(slices.Clone(s.Items))
		applied = true
		return true
	})
	return applied
}

// ClearError drops the load error without touching the items.
func (c *Controller[T, Q]) ClearError() {
	c.update(func(s *State[T]) bool {
		if s.ErrorMessage == "" {
			return false
		}
		s.ErrorMessage = ""
		return true
	})
}

// Wait blocks until every fetch started so far has returned.
func (c *Controller[T, Q]) Wait() {
	c.inflight.Wait()
}

// Close cancels any in-flight fetch and turns further calls into no-ops.
func (c *Controller[T, Q]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller[T, Q]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, query Q, page int) {
	defer c.inflight.Done()
	defer cancel()

	if c.opts.timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, c.opts.timeout)
		defer stop()
	}

	log.Debug().Str("list", c.opts.name).Int("page", page).Int("limit", c.pageSize).Msg("fetching page")

	start := time.Now()
	res, err := c.fetch(ctx, query, page, c.pageSize)
	elapsed := time.Since(start)

	stale := false
	c.update(func(s *State[T]) bool {
		if gen != c.gen {
			stale = true
			return false
		}
		if err != nil {
			s.ErrorMessage = c.opts.message(err)
		} else {
			s.Items = append(s.Items, res.Items...)
			s.TotalCount = res.TotalCount
			s.CurrentPage++
			c.known = true
		}
		s.IsLoading = false
		s.IsFetching = false
		c.cancel = nil
		return true
	})

	switch {
	case stale:
		log.Debug().Str("list", c.opts.name).Int("page", page).Msg("dropped stale page")
		return
	case err != nil:
		log.Error().Err(err).Str("list", c.opts.name).Int("page", page).Dur("elapsed", elapsed).Msg("page fetch failed")
	default:
		log.Debug().
			Str("list", c.opts.name).
			Int("page", page).
			Int("items", len(res.Items)).
			Int("total", res.TotalCount).
			Dur("elapsed", elapsed).
			Msg("page fetched")
	}
	if c.opts.hook != nil {
		c.opts.hook(c.opts.name, page, err, elapsed)
	}
}

// update applies fn under the state lock and, if fn reports a change,
// delivers the resulting snapshot to every listener.
func (c *Controller[T, Q]) update(fn func(s *State[T]) bool) {
	c.pub.Lock()
	defer c.pub.Unlock()

	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	ls := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, l := range ls {
		l.fn(snap)
	}
}

// exhaustedLocked applies the termination rule: once the total is known,
// no page past ceil(total/pageSize) is requested.
func (c *Controller[T, Q]) exhaustedLocked() bool {
	return c.known && c.state.CurrentPage > LastPage(c.state.TotalCount, c.pageSize)
}

func (c *Controller[T, Q]) snapshotLocked() State[T] {
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s
}

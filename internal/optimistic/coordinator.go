package optimistic

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// List is the collection a Coordinator mutates. fn receives a private copy
// of the items and returns the new list.
type List[T any] interface {
	Modify(fn func(items []T) []T)
}

// Versioned is a List that is replaced wholesale on refresh. Snapshots
// taken from one generation are never restored into another.
type Versioned[T any] interface {
	List[T]
	Generation() uint64
	ModifyAt(gen uint64, fn func(items []T) []T) bool
}

// Perform issues the remote half of a mutation.
type Perform func(ctx context.Context) error

// Hook observes settled mutations.
type Hook func(list string, kind Kind, outcome Phase)

type Option func(*options)

type options struct {
	name     string
	messages map[Kind]string
	hook     Hook
}

// WithName labels the coordinator in logs and hooks.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithMessage sets the user-facing error for failed mutations of kind.
// Without one, the error text itself is used.
func WithMessage(kind Kind, msg string) Option {
	return func(o *options) { o.messages[kind] = msg }
}

// WithHook registers a settle observer.
func WithHook(h Hook) Option { return func(o *options) { o.hook = h } }

// Coordinator applies mutations to a list before the backend confirms them
// and undoes them precisely when it refuses.
//
// T should be a value type: edit functions return a new value and the
// original is kept as the rollback snapshot.
type Coordinator[T any] struct {
	list    List[T]
	id      func(T) string
	refresh func()
	opts    options

	mu  sync.Mutex
	err string
}

// New builds a coordinator over list. refresh reloads the list from the
// backend; it is used after creates and failed toggles and may be nil.
func New[T any](list List[T], id func(T) string, refresh func(), opts ...Option) *Coordinator[T] {
	o := options{name: "list", messages: map[Kind]string{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Coordinator[T]{list: list, id: id, refresh: refresh, opts: o}
}

// Err returns the last mutation error. It is separate from the list's own
// load error.
func (c *Coordinator[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ClearError drops the mutation error.
func (c *Coordinator[T]) ClearError() { c.setErr("") }

// ApplyEdit replaces the item with fn(item) in place. It reports false, and
// changes nothing, when no item has the id.
func (c *Coordinator[T]) ApplyEdit(id string, fn func(T) T) (*Mutation[T], bool) {
	var (
		rec   Record[T]
		found bool
	)
	gen := c.generation()
	c.modify(gen, func(items []T) []T {
		i := indexOf(items, c.id, id)
		if i < 0 {
			return items
		}
		rec = Record[T]{ID: id, Original: items[i], Index: i, Generation: gen}
		items[i] = fn(items[i])
		found = true
		return items
	})
	if !found {
		return nil, false
	}
	return &Mutation[T]{c: c, kind: KindEdit, record: rec, phase: Applied}, true
}

// ApplyDelete removes the item with id. It reports false when absent.
func (c *Coordinator[T]) ApplyDelete(id string) (*Mutation[T], bool) {
	var (
		rec   Record[T]
		found bool
	)
	gen := c.generation()
	c.modify(gen, func(items []T) []T {
		i := indexOf(items, c.id, id)
		if i < 0 {
			return items
		}
		rec = Record[T]{ID: id, Original: items[i], Index: i, Generation: gen}
		found = true
		return append(items[:i], items[i+1:]...)
	})
	if !found {
		return nil, false
	}
	return &Mutation[T]{c: c, kind: KindDelete, record: rec, phase: Applied}, true
}

// Create performs a create without touching the list, then reloads it so
// the server-assigned id and timestamps show up.
func (c *Coordinator[T]) Create(ctx context.Context, perform Perform) error {
	c.setErr("")
	if err := perform(ctx); err != nil {
		c.fail(KindCreate, err)
		return err
	}
	c.done(KindCreate, Committed)
	if c.refresh != nil {
		c.refresh()
	}
	return nil
}

// Edit applies fn to the item optimistically and restores the snapshot if
// perform fails. A missing id is a silent no-op and perform is not called.
func (c *Coordinator[T]) Edit(ctx context.Context, id string, fn func(T) T, perform Perform) error {
	m, ok := c.ApplyEdit(id, fn)
	if !ok {
		return nil
	}
	return c.settle(ctx, m, perform)
}

// Delete removes the item optimistically and reinserts it at its original
// index if perform fails. A missing id is a silent no-op.
func (c *Coordinator[T]) Delete(ctx context.Context, id string, perform Perform) error {
	m, ok := c.ApplyDelete(id)
	if !ok {
		return nil
	}
	return c.settle(ctx, m, perform)
}

// Toggle is for server-computed state such as likes and friend approval.
// fn (optional) is applied locally without a snapshot; on failure the whole
// list is reloaded instead of restored.
func (c *Coordinator[T]) Toggle(ctx context.Context, id string, fn func(T) T, perform Perform) error {
	present := false
	c.list.Modify(func(items []T) []T {
		i := indexOf(items, c.id, id)
		if i < 0 {
			return items
		}
		present = true
		if fn != nil {
			items[i] = fn(items[i])
		}
		return items
	})
	if !present {
		return nil
	}

	c.setErr("")
	if err := perform(ctx); err != nil {
		c.fail(KindToggle, err)
		if c.refresh != nil {
			c.refresh()
		}
		return err
	}
	c.done(KindToggle, Committed)
	return nil
}

func (c *Coordinator[T]) settle(ctx context.Context, m *Mutation[T], perform Perform) error {
	c.setErr("")
	if err := perform(ctx); err != nil {
		m.Rollback()
		c.fail(m.kind, err)
		return err
	}
	m.Commit()
	c.done(m.kind, Committed)
	return nil
}

func (c *Coordinator[T]) generation() uint64 {
	if v, ok := c.list.(Versioned[T]); ok {
		return v.Generation()
	}
	return 0
}

// modify applies fn to the list of generation gen and reports whether it ran.
func (c *Coordinator[T]) modify(gen uint64, fn func(items []T) []T) bool {
	if v, ok := c.list.(Versioned[T]); ok {
		return v.ModifyAt(gen, fn)
	}
	c.list.Modify(fn)
	return true
}

func (c *Coordinator[T]) fail(kind Kind, err error) {
	msg := c.opts.messages[kind]
	if msg == "" {
		msg = err.Error()
	}
	c.setErr(msg)
	log.Error().Err(err).Str("list", c.opts.name).Str("kind", string(kind)).Msg("mutation failed")
	c.done(kind, RolledBack)
}

func (c *Coordinator[T]) done(kind Kind, outcome Phase) {
	if outcome == Committed {
		log.Debug().Str("list", c.opts.name).Str("kind", string(kind)).Msg("mutation committed")
	}
	if c.opts.hook != nil {
		c.opts.hook(c.opts.name, kind, outcome)
	}
}

func (c *Coordinator[T]) setErr(msg string) {
	c.mu.Lock()
	c.err = msg
	c.mu.Unlock()
}

package optimistic

import (
	"slices"

	"github.com/rs/zerolog/log"
)

// Phase is the lifecycle position of a single mutation.
type Phase int

const (
	Idle Phase = iota
	Applied
	Committed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Applied:
		return "applied"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Kind names the mutation flavour. Edits and deletes roll back from a
// snapshot; toggles roll back by reloading; creates never touch the list.
type Kind string

const (
	KindCreate Kind = "create"
	KindEdit   Kind = "edit"
	KindDelete Kind = "delete"
	KindToggle Kind = "toggle"
)

// Record is what is needed to undo an applied edit or delete.
type Record[T any] struct {
	ID       string
	Original T
	Index    int
	// Generation is the list generation the snapshot was taken from.
	Generation uint64
}

// Mutation is one optimistic change that has been applied locally and is
// waiting for the remote outcome.
type Mutation[T any] struct {
	c      *Coordinator[T]
	kind   Kind
	record Record[T]
	phase  Phase
}

func (m *Mutation[T]) Kind() Kind        { return m.kind }
func (m *Mutation[T]) Phase() Phase      { return m.phase }
func (m *Mutation[T]) Record() Record[T] { return m.record }

// Commit accepts the local change. The record is discarded.
func (m *Mutation[T]) Commit() {
	if m.phase != Applied {
		return
	}
	m.phase = Committed
	m.record = Record[T]{}
}

// Rollback restores the list to its pre-mutation value and position. If the
// list was reset in the meantime the snapshot is stale and is dropped; the
// reload already carries the server's state.
func (m *Mutation[T]) Rollback() {
	if m.phase != Applied {
		return
	}
	rec := m.record
	id := m.c.id
	restored := true
	switch m.kind {
	case KindEdit:
		restored = m.c.modify(rec.Generation, func(items []T) []T {
			if rec.Index < len(items) && id(items[rec.Index]) == rec.ID {
				items[rec.Index] = rec.Original
				return items
			}
			// The list shifted underneath us; fall back to identity.
			if i := indexOf(items, id, rec.ID); i >= 0 {
				items[i] = rec.Original
			}
			return items
		})
	case KindDelete:
		restored = m.c.modify(rec.Generation, func(items []T) []T {
			if indexOf(items, id, rec.ID) >= 0 {
				return items
			}
			return slices.Insert(items, min(rec.Index, len(items)), rec.Original)
		})
	}
	if !restored {
		log.Debug().Str("list", m.c.opts.name).Str("id", rec.ID).Msg("rollback dropped, list was reset")
	}
	m.phase = RolledBack
	m.record = Record[T]{}
}

func indexOf[T any](items []T, id func(T) string, want string) int {
	return slices.IndexFunc(items, func(it T) bool { return id(it) == want })
}

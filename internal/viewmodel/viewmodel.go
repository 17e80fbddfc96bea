// Package viewmodel wires the paging controller, the optimistic mutation
// coordinator and the search debouncer into the screens of the app.
package viewmodel

import (
	"time"

	"hooked/internal/debounce"
	"hooked/internal/optimistic"
	"hooked/internal/paging"
)

// Settings are shared by every view model.
type Settings struct {
	Debounce     time.Duration
	Timeout      time.Duration
	PageHook     paging.Hook
	MutationHook optimistic.Hook
}

func (s Settings) pagingOpts(name, message string) []paging.Option {
	opts := []paging.Option{paging.WithName(name)}
	if message != "" {
		opts = append(opts, paging.WithErrorMessage(func(error) string { return message }))
	}
	if s.Timeout > 0 {
		opts = append(opts, paging.WithTimeout(s.Timeout))
	}
	if s.PageHook != nil {
		opts = append(opts, paging.WithHook(s.PageHook))
	}
	return opts
}

func (s Settings) mutationOpts(name string, extra ...optimistic.Option) []optimistic.Option {
	opts := append([]optimistic.Option{optimistic.WithName(name)}, extra...)
	if s.MutationHook != nil {
		opts = append(opts, optimistic.WithHook(s.MutationHook))
	}
	return opts
}

// searchList is a paged list whose query is typed search text.
type searchList[T any] struct {
	*paging.Controller[T, string]
	debouncer *debounce.Debouncer[string]
}

func newSearchList[T any](fetch paging.FetchFunc[T, string], pageSize int, s Settings, name string) *searchList[T] {
	c := paging.New(fetch, pageSize, s.pagingOpts(name, "")...)
	return &searchList[T]{
		Controller: c,
		debouncer:  debounce.New(s.Debounce, c.ResetAndFetch),
	}
}

// Search restarts the list for text once typing has paused.
func (l *searchList[T]) Search(text string) { l.debouncer.Trigger(text) }

// Close stops the debouncer and the controller.
func (l *searchList[T]) Close() {
	l.debouncer.Stop()
	l.Controller.Close()
}

package paging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// source is a scripted FetchFunc backed by a virtual list of total items.
type source struct {
	mu        sync.Mutex
	total     int
	pages     []int
	queries   []string
	fail      map[int]error
	gates     map[string]chan struct{}
	cancelled []bool
}

func newSource(total int) *source {
	return &source{total: total, fail: map[int]error{}, gates: map[string]chan struct{}{}}
}

func (s *source) block(query string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[query] = ch
	return ch
}

func (s *source) fetch(ctx context.Context, query string, page, limit int) (Page[string], error) {
	s.mu.Lock()
	s.pages = append(s.pages, page)
	s.queries = append(s.queries, query)
	gate := s.gates[query]
	err := s.fail[page]
	s.mu.Unlock()

	if gate != nil {
		// Deliberately ignores ctx to model a response that arrives late.
		<-gate
	}

	s.mu.Lock()
	s.cancelled = append(s.cancelled, ctx.Err() != nil)
	s.mu.Unlock()

	if err != nil {
		return Page[string]{}, err
	}
	var items []string
	for i := (page - 1) * limit; i < page*limit && i < s.total; i++ {
		items = append(items, fmt.Sprintf("%s-%d", query, i))
	}
	return Page[string]{Items: items, PageNumber: page, PageSize: limit, TotalCount: s.total}, nil
}

func (s *source) calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pages...)
}

func TestLastPage(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{60, 20, 3},
		{7, 1, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LastPage(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestFeedPaginationScenario(t *testing.T) {
	src := newSource(45)
	c := New(src.fetch, 20)

	var sizes []int
	for i := 0; i < 3; i++ {
		before := len(c.Items())
		c.FetchNextPage("")
		c.Wait()
		sizes = append(sizes, len(c.Items())-before)
	}
	assert.Equal(t, []int{20, 20, 5}, sizes)

	st := c.State()
	assert.Equal(t, 4, st.CurrentPage)
	assert.Equal(t, 45, st.TotalCount)
	assert.False(t, c.HasMore())

	c.FetchNextPage("")
	c.Wait()
	assert.Equal(t, []int{1, 2, 3}, src.calls())
	assert.Len(t, c.Items(), 45)
	assert.False(t, c.State().IsFetching)
}

func TestPaginationTerminates(t *testing.T) {
	for _, size := range []int{1, 3, 20, 50} {
		for _, total := range []int{0, 1, 2, 19, 20, 21, 45, 100} {
			t.Run(fmt.Sprintf("size=%d/total=%d", size, total), func(t *testing.T) {
				src := newSource(total)
				c := New(src.fetch, size)

				for i := 0; i < total+5; i++ {
					c.FetchNextPage("q")
					c.Wait()
				}

				wantCalls := LastPage(total, size)
				if wantCalls == 0 {
					wantCalls = 1 // the first fetch is what reveals an empty total
				}
				assert.Len(t, src.calls(), wantCalls)
				assert.Len(t, c.Items(), total)
				assert.False(t, c.HasMore())
			})
		}
	}
}

func TestNoDoubleFetchWhileInFlight(t *testing.T) {
	src := newSource(100)
	gate := src.block("q")
	c := New(src.fetch, 20)

	c.FetchNextPage("q")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.FetchNextPage("q")
		}()
	}
	wg.Wait()

	st := c.State()
	assert.True(t, st.IsFetching)
	assert.True(t, st.IsLoading)
	assert.Empty(t, st.Items)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, []int{1}, src.calls())

	close(gate)
	c.Wait()

	st = c.State()
	assert.False(t, st.IsFetching)
	assert.Len(t, st.Items, 20)
	assert.Equal(t, []int{1}, src.calls())
}

func TestResetIsVisibleBeforeFetchCompletes(t *testing.T) {
	src := newSource(100)
	c := New(src.fetch, 20)
	c.FetchNextPage("old")
	c.Wait()
	require.Len(t, c.Items(), 20)

	var (
		mu    sync.Mutex
		snaps []State[string]
	)
	unsubscribe := c.Subscribe(func(s State[string]) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})
	defer unsubscribe()

	gate := src.block("new")
	c.ResetAndFetch("new")

	st := c.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, 0, st.TotalCount)
	assert.True(t, st.IsFetching)

	close(gate)
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(snaps), 3)
	assert.Empty(t, snaps[0].Items, "reset must be published before any fetch result")
	assert.False(t, snaps[0].IsFetching)
	last := snaps[len(snaps)-1]
	assert.Len(t, last.Items, 20)
	assert.Equal(t, "new-0", last.Items[0])
}

func TestFetchFailurePreservesState(t *testing.T) {
	src := newSource(100)
	c := New(src.fetch, 20)
	c.FetchNextPage("q")
	c.Wait()

	src.fail[2] = errors.New("connection reset")
	c.FetchNextPage("q")
	c.Wait()

	st := c.State()
	assert.Len(t, st.Items, 20)
	assert.Equal(t, 2, st.CurrentPage)
	assert.Equal(t, "connection reset", st.ErrorMessage)
	assert.False(t, st.IsLoading)
	assert.False(t, st.IsFetching)

	delete(src.fail, 2)
	c.FetchNextPage("q")
	c.Wait()

	st = c.State()
	assert.Equal(t, []int{1, 2, 2}, src.calls(), "a retry re-requests the failed page")
	assert.Len(t, st.Items, 40)
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, 3, st.CurrentPage)
}

func TestErrorMessageOption(t *testing.T) {
	src := newSource(10)
	src.fail[1] = errors.New("boom")
	c := New(src.fetch, 5, WithErrorMessage(func(error) string { return "Failed to retrieve feed at this time." }))

	c.FetchNextPage("")
	c.Wait()
	assert.Equal(t, "Failed to retrieve feed at this time.", c.State().ErrorMessage)
}

func TestStaleResponseIsDropped(t *testing.T) {
	src := newSource(100)
	stale := src.block("b")
	c := New(src.fetch, 20)

	c.ResetAndFetch("b")
	c.ResetAndFetch("bas")

	// "bas" is not gated and lands first; "b" is still blocked.
	require.Eventually(t, func() bool { return len(c.Items()) == 20 }, time.Second, 5*time.Millisecond)
	close(stale)
	c.Wait()

	st := c.State()
	require.Len(t, st.Items, 20)
	for _, it := range st.Items {
		assert.Contains(t, it, "bas-")
	}
	assert.Equal(t, 2, st.CurrentPage)
	assert.False(t, st.IsFetching)

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Contains(t, src.cancelled, true, "the abandoned fetch sees a cancelled context")
}

func TestHookAndModify(t *testing.T) {
	src := newSource(3)
	var (
		mu   sync.Mutex
		seen []string
	)
	c := New(src.fetch, 10, WithName("species"), WithHook(func(list string, page int, err error, _ time.Duration) {
		mu.Lock()
		seen = append(seen, fmt.Sprintf("%s:%d:%v", list, page, err))
		mu.Unlock()
	}))
	c.FetchNextPage("x")
	c.Wait()

	mu.Lock()
	assert.Equal(t, []string{"species:1:<nil>"}, seen)
	mu.Unlock()

	c.Modify(func(items []string) []string { return items[1:] })
	assert.Equal(t, []string{"x-1", "x-2"}, c.Items())

	items := c.Items()
	items[0] = "mutated"
	assert.Equal(t, "x-1", c.Items()[0], "snapshots are copies")
}

func TestRefreshReusesLastQuery(t *testing.T) {
	src := newSource(5)
	c := New(src.fetch, 5)
	c.ResetAndFetch("perch")
	c.Wait()
	c.Refresh()
	c.Wait()

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, []string{"perch", "perch"}, src.queries)
	assert.Len(t, c.Items(), 5)
}

func TestClose(t *testing.T) {
	src := newSource(100)
	c := New(src.fetch, 10)
	c.Close()
	c.FetchNextPage("q")
	c.ResetAndFetch("q")
	c.Wait()
	assert.Empty(t, src.calls())
}

func TestModifyAtIgnoresOlderGenerations(t *testing.T) {
	src := newSource(3)
	c := New(src.fetch, 10)
	c.FetchNextPage("x")
	c.Wait()

	gen := c.Generation()
	assert.True(t, c.ModifyAt(gen, func(items []string) []string { return items[1:] }))
	assert.Equal(t, []string{"x-1", "x-2"}, c.Items())

	c.Refresh()
	c.Wait()
	assert.NotEqual(t, gen, c.Generation())
	assert.False(t, c.ModifyAt(gen, func(items []string) []string { return nil }))
	assert.Len(t, c.Items(), 3)
}

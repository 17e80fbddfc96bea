package expiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hooked/internal/domain/epoch"
	"hooked/internal/domain/story"
	"hooked/internal/domain/user"
	"hooked/internal/store/memory"
)

type failingStories struct{}

func (failingStories) Save(context.Context, *story.Story) error { return nil }
func (failingStories) FindForUser(context.Context, string, time.Time) ([]story.Story, error) {
	return nil, nil
}
func (failingStories) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, errors.New("db down")
}

func TestTickDeletesExpired(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	repos := st.Repositories()
	require.NoError(t, repos.Users.Save(ctx, &user.User{ID: "u1", FirstName: "Ada"}))

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := story.Story{UserID: "u1", CreatedAt: epoch.New(now.Add(-2 * story.DefaultTTL))}
	fresh := story.Story{UserID: "u1", CreatedAt: epoch.New(now.Add(-time.Hour))}
	require.NoError(t, repos.Stories.Save(ctx, &old))
	require.NoError(t, repos.Stories.Save(ctx, &fresh))

	var swept []int
	w := NewWorker(repos.Stories, time.Minute, func(n int) { swept = append(swept, n) })
	w.now = func() time.Time { return now }

	assert.Equal(t, 1, w.tick(ctx))
	assert.Equal(t, 0, w.tick(ctx), "nothing left to sweep")
	assert.Equal(t, []int{1}, swept)

	w.now = func() time.Time { return now.Add(story.DefaultTTL) }
	assert.Equal(t, 1, w.tick(ctx))
}

func TestTickSurvivesErrors(t *testing.T) {
	called := false
	w := NewWorker(failingStories{}, 0, func(int) { called = true })
	assert.Equal(t, time.Minute, w.pollEvery)
	assert.Equal(t, 0, w.tick(context.Background()))
	assert.False(t, called)
}

func TestRunStopsOnCancel(t *testing.T) {
	w := NewWorker(memory.New().Repositories().Stories, time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

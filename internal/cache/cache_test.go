package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hooked/internal/domain/species"
)

type countingSpecies struct {
	calls int
	err   error
}

func (c *countingSpecies) Search(_ context.Context, query string, limit, offset int) ([]species.Species, int, error) {
	c.calls++
	if c.err != nil {
		return nil, 0, c.err
	}
	return []species.Species{{EnglishName: "Walleye " + query}}, 7, nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSpeciesCacheReadThrough(t *testing.T) {
	mr, rdb := setup(t)
	repo := &countingSpecies{}
	c := NewSpeciesCache(repo, rdb, time.Minute)
	ctx := context.Background()

	res, total, err := c.Search(ctx, "Eye", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, "Walleye Eye", res[0].EnglishName)

	res, total, err = c.Search(ctx, " eye", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, "Walleye Eye", res[0].EnglishName, "query text is normalised into the key")
	assert.Equal(t, 1, repo.calls)

	_, _, err = c.Search(ctx, "eye", 50, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "pages are cached separately")

	mr.FastForward(2 * time.Minute)
	_, _, err = c.Search(ctx, "eye", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestSpeciesCacheSurvivesRedisOutage(t *testing.T) {
	mr, rdb := setup(t)
	repo := &countingSpecies{}
	c := NewSpeciesCache(repo, rdb, time.Minute)
	mr.Close()

	_, total, err := c.Search(context.Background(), "pike", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, 1, repo.calls)
}

func TestSpeciesCacheCorruptEntry(t *testing.T) {
	mr, rdb := setup(t)
	repo := &countingSpecies{}
	c := NewSpeciesCache(repo, rdb, time.Minute)
	require.NoError(t, mr.Set(speciesKey("pike", 50, 0), "{not json"))

	_, _, err := c.Search(context.Background(), "pike", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestRateLimiter(t *testing.T) {
	mr, rdb := setup(t)
	l := NewRateLimiter(rdb, 3)
	now := time.Date(2026, 1, 1, 12, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := l.Allow(ctx, "demo")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, reset, err := l.Allow(ctx, "demo")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, reset)

	ok, _, err = l.Allow(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")

	now = now.Add(time.Minute)
	ok, _, err = l.Allow(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, ok, "a new window starts fresh")

	assert.Greater(t, mr.TTL("hooked:rl:demo:"+slotOf(now)), time.Duration(0))
}

func TestRateLimiterDisabled(t *testing.T) {
	_, rdb := setup(t)
	ok, _, err := NewRateLimiter(rdb, 0).Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func slotOf(t time.Time) string {
	return strconv.FormatInt(t.UnixNano()/int64(time.Minute), 10)
}

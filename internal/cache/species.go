package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hooked/internal/domain/species"
	"hooked/internal/store/repositories"
)

// DefaultSpeciesTTL bounds how stale a cached catalogue page may be.
const DefaultSpeciesTTL = 10 * time.Minute

type speciesPage struct {
	Results []species.Species `json:"results"`
	Total   int               `json:"total"`
}

// SpeciesCache is a read-through cache in front of a SpeciesRepository. The
// catalogue is effectively static, so pages are cached per query text.
// Redis failures fall through to the repository.
type SpeciesCache struct {
	next repositories.SpeciesRepository
	rdb  redis.Cmdable
	ttl  time.Duration
}

func NewSpeciesCache(next repositories.SpeciesRepository, rdb redis.Cmdable, ttl time.Duration) *SpeciesCache {
	if ttl <= 0 {
		ttl = DefaultSpeciesTTL
	}
	return &SpeciesCache{next: next, rdb: rdb, ttl: ttl}
}

func speciesKey(query string, limit, offset int) string {
	return fmt.Sprintf("hooked:species:%s:%d:%d", strings.ToLower(strings.TrimSpace(query)), limit, offset)
}

func (c *SpeciesCache) Search(ctx context.Context, query string, limit, offset int) ([]species.Species, int, error) {
	key := speciesKey(query, limit, offset)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var page speciesPage
		if jerr := json.Unmarshal(raw, &page); jerr == nil {
			return page.Results, page.Total, nil
		}
		log.Warn().Str("key", key).Msg("dropping corrupt species cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Msg("species cache read failed")
	}

	results, total, err := c.next.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if b, jerr := json.Marshal(speciesPage{Results: results, Total: total}); jerr == nil {
		if serr := c.rdb.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			log.Warn().Err(serr).Msg("species cache write failed")
		}
	}
	return results, total, nil
}

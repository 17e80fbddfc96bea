package expiry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hooked/internal/store/repositories"
)

// Worker periodically deletes stories whose expiry has passed.
type Worker struct {
	stories   repositories.StoryRepository
	pollEvery time.Duration
	now       func() time.Time
	onSweep   func(n int)
}

func NewWorker(stories repositories.StoryRepository, every time.Duration, onSweep func(n int)) *Worker {
	if every <= 0 {
		every = time.Minute
	}
	return &Worker{stories: stories, pollEvery: every, now: time.Now, onSweep: onSweep}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("every", w.pollEvery).Msg("story expiry worker: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("story expiry worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) int {
	n, err := w.stories.DeleteExpired(ctx, w.now())
	if err != nil {
		log.Error().Err(err).Msg("story expiry worker: sweep failed")
		return 0
	}
	if n == 0 {
		return 0
	}
	log.Debug().Int("deleted", n).Msg("story expiry worker: swept")
	if w.onSweep != nil {
		w.onSweep(n)
	}
	return n
}

package viewmodel

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"hooked/internal/domain/post"
	"hooked/internal/domain/weather"
	"hooked/internal/optimistic"
	"hooked/internal/paging"
)

const FeedPageSize = 20

// FeedAPI is what the feed screen needs from the backend.
type FeedAPI interface {
	Feed(ctx context.Context, page, limit int) (post.FeedResponse, error)
	LikePost(ctx context.Context, postID string) (post.LikeResult, error)
	CreatePost(ctx context.Context, d post.Draft) error
	Weather(ctx context.Context, lat, lng float64) (weather.Weather, error)
}

// Feed is the home timeline.
type Feed struct {
	*paging.Controller[post.Post, struct{}]
	posts *optimistic.Coordinator[post.Post]
	api   FeedAPI

	mu          sync.Mutex
	weather     *weather.Weather
	postCreated bool
}

func NewFeed(api FeedAPI, s Settings) *Feed {
	fetch := func(ctx context.Context, _ struct{}, page, limit int) (paging.Page[post.Post], error) {
		res, err := api.Feed(ctx, page, limit)
		if err != nil {
			return paging.Page[post.Post]{}, err
		}
		return paging.Page[post.Post]{Items: res.Data, PageNumber: res.Page, PageSize: res.Limit, TotalCount: res.Total}, nil
	}
	f := &Feed{api: api}
	f.Controller = paging.New(fetch, FeedPageSize, s.pagingOpts("feed", "Failed to retrieve feed at this time.")...)
	f.posts = optimistic.New[post.Post](f.Controller, postID, f.Controller.Refresh,
		s.mutationOpts("feed", optimistic.WithMessage(optimistic.KindCreate, "Failed to create post at this time. Please try again."))...)
	return f
}

func postID(p post.Post) string { return p.ID }

// Load restarts the feed from the first page.
func (f *Feed) Load() { f.ResetAndFetch(struct{}{}) }

// Like flips the like on a post right away and settles the count from the
// server's answer. On failure the feed is reloaded.
func (f *Feed) Like(ctx context.Context, id string) error {
	var res post.LikeResult
	err := f.posts.Toggle(ctx, id, func(p post.Post) post.Post {
		if p.Liked {
			p.LikeCount--
		} else {
			p.LikeCount++
		}
		p.Liked = !p.Liked
		return p
	}, func(ctx context.Context) error {
		var err error
		res, err = f.api.LikePost(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	f.Modify(func(items []post.Post) []post.Post {
		for i := range items {
			if items[i].ID == id {
				items[i].Liked = res.Liked
				items[i].LikeCount = res.LikeCount
			}
		}
		return items
	})
	return nil
}

// CreatePost validates and uploads d, then reloads the feed.
func (f *Feed) CreatePost(ctx context.Context, d post.Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	f.setPostCreated(false)
	err := f.posts.Create(ctx, func(ctx context.Context) error {
		return f.api.CreatePost(ctx, d)
	})
	if err == nil {
		f.setPostCreated(true)
	}
	return err
}

// PostCreated reports whether the last CreatePost succeeded.
func (f *Feed) PostCreated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.postCreated
}

func (f *Feed) setPostCreated(v bool) {
	f.mu.Lock()
	f.postCreated = v
	f.mu.Unlock()
}

// MutationError is the last like or create failure.
func (f *Feed) MutationError() string { return f.posts.Err() }

// ClearErrors drops both the load and the mutation error.
func (f *Feed) ClearErrors() {
	f.ClearError()
	f.posts.ClearError()
}

// LoadWeather fetches conditions for the current location. Failures leave
// the previous reading in place.
func (f *Feed) LoadWeather(ctx context.Context, lat, lng float64) {
	w, err := f.api.Weather(ctx, lat, lng)
	if err != nil {
		log.Debug().Err(err).Msg("weather unavailable")
		return
	}
	f.mu.Lock()
	f.weather = &w
	f.mu.Unlock()
}

// Weather returns the last reading, or nil.
func (f *Feed) Weather() *weather.Weather {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.weather == nil {
		return nil
	}
	w := *f.weather
	return &w
}

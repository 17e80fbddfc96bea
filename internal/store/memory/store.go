// Package memory is an in-process implementation of the repositories, used
// by tests and by the dev server when no database is configured.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/comment"
	"hooked/internal/domain/epoch"
	"hooked/internal/domain/post"
	"hooked/internal/domain/species"
	"hooked/internal/domain/story"
	"hooked/internal/domain/user"
	"hooked/internal/store"
	"hooked/internal/store/repositories"
)

type friendship struct {
	id       string
	from, to string
	status   user.FriendStatus
}

// Store holds every table in memory behind one lock.
type Store struct {
	mu sync.RWMutex

	users       map[string]user.User
	userOrder   []string
	posts       []post.Post
	likes       map[string]map[string]bool // post id -> user ids
	comments    []comment.Comment
	friendships []friendship
	species     []species.Species
	catches     map[string][]catch.Catch
	stories     []story.Story

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:   map[string]user.User{},
		likes:   map[string]map[string]bool{},
		catches: map[string][]catch.Catch{},
		now:     time.Now,
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Repositories exposes the store through the repository contracts.
func (s *Store) Repositories() repositories.Repositories {
	return repositories.Repositories{
		Users:    userRepo{s},
		Posts:    postRepo{s},
		Comments: commentRepo{s},
		Friends:  friendRepo{s},
		Species:  speciesRepo{s},
		Catches:  catchRepo{s},
		Stories:  storyRepo{s},
	}
}

// AddSpecies appends entries to the catalogue.
func (s *Store) AddSpecies(sp ...species.Species) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.species = append(s.species, sp...)
}

// AddCatch records a catch for userID.
func (s *Store) AddCatch(userID string, c catch.Catch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = epoch.New(s.now())
	}
	s.catches[userID] = append(s.catches[userID], c)
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	return slices.Clone(all[offset:min(offset+limit, len(all))])
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// friendsOfLocked returns the ids of accepted friends of userID.
func (s *Store) friendsOfLocked(userID string) map[string]bool {
	out := map[string]bool{}
	for _, f := range s.friendships {
		if f.status != user.StatusAccepted {
			continue
		}
		switch userID {
		case f.from:
			out[f.to] = true
		case f.to:
			out[f.from] = true
		}
	}
	return out
}

type userRepo struct{ s *Store }

func (r userRepo) Save(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, ok := r.s.users[u.ID]; !ok {
		r.s.userOrder = append(r.s.userOrder, u.ID)
	}
	stored := *u
	stored.FriendRequested = false
	r.s.users[u.ID] = stored
	return nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

type postRepo struct{ s *Store }

func (r postRepo) Save(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.UserID]; !ok {
		return store.ErrNotFound
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = epoch.New(r.s.now())
	}
	r.s.posts = append(r.s.posts, *p)
	return nil
}

func (r postRepo) Feed(_ context.Context, userID string, limit, offset int) ([]post.Post, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	visible := r.s.friendsOfLocked(userID)
	visible[userID] = true

	var all []post.Post
	for _, p := range r.s.posts {
		if visible[p.UserID] {
			all = append(all, r.s.decorateLocked(p, userID))
		}
	}
	slices.SortStableFunc(all, func(a, b post.Post) int { return b.Timestamp.Compare(a.Timestamp.Time) })
	return window(all, limit, offset), len(all), nil
}

func (s *Store) decorateLocked(p post.Post, viewer string) post.Post {
	if u, ok := s.users[p.UserID]; ok {
		p.HandleName, p.FirstName, p.LastName, p.ProfileIcon = u.HandleName, u.FirstName, u.LastName, u.ProfileIcon
	}
	p.LikeCount = len(s.likes[p.ID])
	p.Liked = s.likes[p.ID][viewer]
	p.CommentCount = 0
	for _, c := range s.comments {
		if c.PostID == p.ID {
			p.CommentCount++
		}
	}
	return p
}

func (r postRepo) ToggleLike(_ context.Context, userID, postID string) (post.LikeResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.posts, func(p post.Post) bool { return p.ID == postID })
	if i < 0 {
		return post.LikeResult{}, store.ErrNotFound
	}
	if owner := r.s.posts[i].UserID; owner != userID && !r.s.friendsOfLocked(userID)[owner] {
		return post.LikeResult{}, store.ErrNotFound
	}

	likers := r.s.likes[postID]
	if likers == nil {
		likers = map[string]bool{}
		r.s.likes[postID] = likers
	}
	if likers[userID] {
		delete(likers, userID)
	} else {
		likers[userID] = true
	}
	return post.LikeResult{Liked: likers[userID], LikeCount: len(likers)}, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) FindByPost(_ context.Context, postID string, limit, offset int) ([]comment.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []comment.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			all = append(all, c)
		}
	}
	return window(all, limit, offset), len(all), nil
}

func (r commentRepo) Save(_ context.Context, c *comment.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !slices.ContainsFunc(r.s.posts, func(p post.Post) bool { return p.ID == c.PostID }) {
		return store.ErrNotFound
	}
	author, ok := r.s.users[c.UserID]
	if !ok {
		return store.ErrNotFound
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := epoch.New(r.s.now())
	c.CreatedAt, c.UpdatedAt = now, now
	c.User = comment.Author{
		FirstName:   author.FirstName,
		LastName:    author.LastName,
		HandleName:  author.HandleName,
		ProfileIcon: author.ProfileIcon,
	}
	r.s.comments = append(r.s.comments, *c)
	return nil
}

func (r commentRepo) Update(_ context.Context, userID, id, content string) (*comment.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, err := r.ownedLocked(userID, id)
	if err != nil {
		return nil, err
	}
	r.s.comments[i].Content = content
	r.s.comments[i].UpdatedAt = epoch.New(r.s.now())
	c := r.s.comments[i]
	return &c, nil
}

func (r commentRepo) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, err := r.ownedLocked(userID, id)
	if err != nil {
		return err
	}
	r.s.comments = slices.Delete(r.s.comments, i, i+1)
	return nil
}

func (r commentRepo) ownedLocked(userID, id string) (int, error) {
	i := slices.IndexFunc(r.s.comments, func(c comment.Comment) bool { return c.ID == id })
	if i < 0 {
		return -1, store.ErrNotFound
	}
	if r.s.comments[i].UserID != userID {
		return -1, store.ErrForbidden
	}
	return i, nil
}

type friendRepo struct{ s *Store }

func (r friendRepo) List(_ context.Context, userID string, status user.FriendStatus, query string, limit, offset int) ([]user.Friend, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []user.Friend
	for _, f := range r.s.friendships {
		if f.status != status {
			continue
		}
		var other string
		switch {
		case f.to == userID:
			other = f.from
		case f.from == userID && status == user.StatusAccepted:
			other = f.to
		default:
			continue
		}
		u := r.s.users[other]
		if !matches(query, u.DisplayName(), u.HandleName) {
			continue
		}
		all = append(all, user.Friend{ID: f.id, Status: f.status, User: u})
	}
	return window(all, limit, offset), len(all), nil
}

func (r friendRepo) Suggestions(_ context.Context, userID, query string, limit, offset int) ([]user.User, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	friends := r.s.friendsOfLocked(userID)
	requested := map[string]bool{}
	for _, f := range r.s.friendships {
		if f.status == user.StatusPending && f.from == userID {
			requested[f.to] = true
		}
	}

	var all []user.User
	for _, id := range r.s.userOrder {
		if id == userID || friends[id] {
			continue
		}
		u := r.s.users[id]
		if !matches(query, u.DisplayName(), u.HandleName) {
			continue
		}
		u.FriendRequested = requested[id]
		all = append(all, u)
	}
	return window(all, limit, offset), len(all), nil
}

func (r friendRepo) Request(_ context.Context, userID, friendID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if userID == friendID {
		return store.ErrConflict
	}
	if _, ok := r.s.users[friendID]; !ok {
		return store.ErrNotFound
	}
	for _, f := range r.s.friendships {
		if (f.from == userID && f.to == friendID) || (f.from == friendID && f.to == userID) {
			return store.ErrConflict
		}
	}
	r.s.friendships = append(r.s.friendships, friendship{
		id: uuid.NewString(), from: userID, to: friendID, status: user.StatusPending,
	})
	return nil
}

func (r friendRepo) Approve(_ context.Context, userID, friendshipID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, f := range r.s.friendships {
		if f.id != friendshipID || f.to != userID {
			continue
		}
		if f.status == user.StatusAccepted {
			return store.ErrConflict
		}
		r.s.friendships[i].status = user.StatusAccepted
		return nil
	}
	return store.ErrNotFound
}

type speciesRepo struct{ s *Store }

func (r speciesRepo) Search(_ context.Context, query string, limit, offset int) ([]species.Species, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []species.Species
	for _, sp := range r.s.species {
		if matches(query, sp.EnglishName, sp.ScientificName) {
			all = append(all, sp)
		}
	}
	return window(all, limit, offset), len(all), nil
}

type catchRepo struct{ s *Store }

func (r catchRepo) FindByUser(_ context.Context, userID string, limit, offset int) ([]catch.Catch, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := slices.Clone(r.s.catches[userID])
	slices.SortStableFunc(all, func(a, b catch.Catch) int { return b.CreatedAt.Compare(a.CreatedAt.Time) })
	return window(all, limit, offset), len(all), nil
}

type storyRepo struct{ s *Store }

func (r storyRepo) Save(_ context.Context, st *story.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[st.UserID]
	if !ok {
		return store.ErrNotFound
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = epoch.New(r.s.now())
	}
	if st.ExpiresAt.IsZero() {
		st.ExpiresAt = epoch.New(st.CreatedAt.Add(story.DefaultTTL))
	}
	st.UserFirstName, st.UserLastName, st.UserProfileIconURL = u.FirstName, u.LastName, u.ProfileIcon
	r.s.stories = append(r.s.stories, *st)
	return nil
}

func (r storyRepo) FindForUser(_ context.Context, userID string, now time.Time) ([]story.Story, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	friends := r.s.friendsOfLocked(userID)
	out := []story.Story{}
	for _, st := range r.s.stories {
		if friends[st.UserID] && !st.Expired(now) {
			out = append(out, st)
		}
	}
	slices.SortStableFunc(out, func(a, b story.Story) int { return b.CreatedAt.Compare(a.CreatedAt.Time) })
	return out, nil
}

func (r storyRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.stories)
	r.s.stories = slices.DeleteFunc(r.s.stories, func(st story.Story) bool { return st.Expired(now) })
	return before - len(r.s.stories), nil
}

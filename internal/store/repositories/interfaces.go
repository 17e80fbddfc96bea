package repositories

import (
	"context"
	"time"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/comment"
	"hooked/internal/domain/post"
	"hooked/internal/domain/species"
	"hooked/internal/domain/story"
	"hooked/internal/domain/user"
)

// UserRepository defines the contract for user data access
type UserRepository interface {
	Save(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// PostRepository defines the contract for post data access. Feed returns the
// caller's posts and those of accepted friends, newest first, with Liked
// computed for the caller.
type PostRepository interface {
	Save(ctx context.Context, p *post.Post) error
	Feed(ctx context.Context, userID string, limit, offset int) ([]post.Post, int, error)
	ToggleLike(ctx context.Context, userID, postID string) (post.LikeResult, error)
}

// CommentRepository defines the contract for comment data access. Update and
// Delete return store.ErrForbidden when userID is not the author.
type CommentRepository interface {
	FindByPost(ctx context.Context, postID string, limit, offset int) ([]comment.Comment, int, error)
	Save(ctx context.Context, c *comment.Comment) error
	Update(ctx context.Context, userID, id, content string) (*comment.Comment, error)
	Delete(ctx context.Context, userID, id string) error
}

// FriendRepository defines the contract for friendship data access.
//
// List with StatusAccepted returns friendships in either direction; with
// StatusPending it returns requests addressed to userID.
type FriendRepository interface {
	List(ctx context.Context, userID string, status user.FriendStatus, query string, limit, offset int) ([]user.Friend, int, error)
	Suggestions(ctx context.Context, userID, query string, limit, offset int) ([]user.User, int, error)
	Request(ctx context.Context, userID, friendID string) error
	Approve(ctx context.Context, userID, friendshipID string) error
}

// SpeciesRepository defines the contract for the species catalogue
type SpeciesRepository interface {
	Search(ctx context.Context, query string, limit, offset int) ([]species.Species, int, error)
}

// CatchRepository defines the contract for catch data access
type CatchRepository interface {
	FindByUser(ctx context.Context, userID string, limit, offset int) ([]catch.Catch, int, error)
}

// StoryRepository defines the contract for story data access
type StoryRepository interface {
	Save(ctx context.Context, s *story.Story) error
	FindForUser(ctx context.Context, userID string, now time.Time) ([]story.Story, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
	Friends  FriendRepository
	Species  SpeciesRepository
	Catches  CatchRepository
	Stories  StoryRepository
}

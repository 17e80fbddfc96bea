package data

import (
	"context"
	"time"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/comment"
	"hooked/internal/domain/post"
	"hooked/internal/domain/species"
	"hooked/internal/domain/story"
	"hooked/internal/domain/user"
	"hooked/internal/store/repositories"
)

// Service handles data retrieval operations
type Service struct {
	repos repositories.Repositories
	now   func() time.Time
}

// NewService creates a new data service
func NewService(repos repositories.Repositories) *Service {
	return &Service{repos: repos, now: time.Now}
}

// ListFeed retrieves one page of the caller's feed
func (s *Service) ListFeed(ctx context.Context, userID string, req ListRequest) (*post.FeedResponse, error) {
	req.Validate()
	posts, total, err := s.repos.Posts.Feed(ctx, userID, req.Limit, req.Offset())
	if err != nil {
		return nil, &ServiceError{Op: "list_feed", Err: err}
	}
	return &post.FeedResponse{Page: req.Page, Limit: req.Limit, Total: total, Data: posts}, nil
}

// ListComments retrieves one page of comments on a post, oldest first
func (s *Service) ListComments(ctx context.Context, postID string, req ListRequest) (*comment.ListResponse, error) {
	req.Validate()
	comments, total, err := s.repos.Comments.FindByPost(ctx, postID, req.Limit, req.Offset())
	if err != nil {
		return nil, &ServiceError{Op: "list_comments", Err: err}
	}
	return &comment.ListResponse{Comments: comments, Total: total}, nil
}

// ListFriends retrieves accepted friends or pending requests
func (s *Service) ListFriends(ctx context.Context, userID string, status user.FriendStatus, req ListRequest) (*user.FriendList, error) {
	req.Validate()
	if status == "" {
		status = user.StatusAccepted
	}
	friends, total, err := s.repos.Friends.List(ctx, userID, status, req.Query, req.Limit, req.Offset())
	if err != nil {
		return nil, &ServiceError{Op: "list_friends", Err: err}
	}
	return &user.FriendList{Page: req.Page, Limit: req.Limit, Total: total, Users: friends}, nil
}

// ListSuggestions retrieves people the caller is not yet friends with
func (s *Service) ListSuggestions(ctx context.Context, userID string, req ListRequest) (*user.SuggestionList, error) {
	req.Validate()
	users, total, err := s.repos.Friends.Suggestions(ctx, userID, req.Query, req.Limit, req.Offset())
	if err != nil {
		return nil, &ServiceError{Op: "list_suggestions", Err: err}
	}
	return &user.SuggestionList{Page: req.Page, Limit: req.Limit, Total: total, Users: users}, nil
}

// SearchSpecies retrieves one page of the species catalogue
func (s *Service) SearchSpecies(ctx context.Context, req ListRequest) (*species.Response, error) {
	req.Validate()
	results, total, err := s.repos.Species.Search(ctx, req.Query, req.Limit, req.Offset())
	if err != nil {
		return nil, &ServiceError{Op: "search_species", Err: err}
	}
	return &species.Response{Page: req.Page, Limit: req.Limit, Total: total, Results: results}, nil
}

// ListCatches retrieves one page of the caller's catches
func (s *Service) ListCatches(ctx context.Context, userID string, req ListRequest) (*catch.Response, error) {
	req.Validate()
	catches, total, err := s.repos.Catches.FindByUser(ctx, userID, req.Limit, req.Offset())
	if err != nil {
		return nil, &ServiceError{Op: "list_catches", Err: err}
	}
	return &catch.Response{Page: req.Page, Limit: req.Limit, Total: total, Catches: catches}, nil
}

// ListStories retrieves the unexpired stories of the caller's friends
func (s *Service) ListStories(ctx context.Context, userID string) ([]story.Story, error) {
	stories, err := s.repos.Stories.FindForUser(ctx, userID, s.now())
	if err != nil {
		return nil, &ServiceError{Op: "list_stories", Err: err}
	}
	return stories, nil
}

// ServiceError represents a data service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "data service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

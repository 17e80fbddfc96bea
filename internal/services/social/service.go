package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hooked/internal/domain/comment"
	"hooked/internal/domain/post"
	"hooked/internal/store/repositories"
)

// ErrInvalid wraps input the backend refuses to store.
var ErrInvalid = errors.New("invalid input")

// Service handles everything a user can change: posts, likes, comments and
// friendships.
type Service struct {
	repos repositories.Repositories
}

func NewService(repos repositories.Repositories) *Service {
	return &Service{repos: repos}
}

// CreatePost validates and stores a post. Uploaded images are referenced by
// generated media paths; the bytes are not kept by the dev backend.
func (s *Service) CreatePost(ctx context.Context, userID string, d post.Draft) (*post.Post, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	p := &post.Post{
		UserID:   userID,
		Content:  post.Content{Description: strings.TrimSpace(d.Description)},
		Tags:     d.Tags,
		Location: d.Location,
	}
	for range d.Images {
		p.Images = append(p.Images, "/media/"+uuid.NewString()+".jpg")
	}
	if err := s.repos.Posts.Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "create_post", Err: err}
	}
	log.Info().Str("user_id", userID).Str("post_id", p.ID).Int("images", len(p.Images)).Msg("post created")
	return p, nil
}

// ToggleLike flips the caller's like on a post.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (post.LikeResult, error) {
	res, err := s.repos.Posts.ToggleLike(ctx, userID, postID)
	if err != nil {
		return post.LikeResult{}, &ServiceError{Op: "toggle_like", Err: err}
	}
	return res, nil
}

func (s *Service) AddComment(ctx context.Context, userID, postID, content string) (*comment.Comment, error) {
	if err := comment.ValidateContent(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c := &comment.Comment{UserID: userID, PostID: postID, Content: strings.TrimSpace(content)}
	if err := s.repos.Comments.Save(ctx, c); err != nil {
		return nil, &ServiceError{Op: "add_comment", Err: err}
	}
	return c, nil
}

func (s *Service) EditComment(ctx context.Context, userID, commentID, content string) (*comment.Comment, error) {
	if err := comment.ValidateContent(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	c, err := s.repos.Comments.Update(ctx, userID, commentID, strings.TrimSpace(content))
	if err != nil {
		return nil, &ServiceError{Op: "edit_comment", Err: err}
	}
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	if err := s.repos.Comments.Delete(ctx, userID, commentID); err != nil {
		return &ServiceError{Op: "delete_comment", Err: err}
	}
	return nil
}

// RequestFriend sends a friend request from userID to friendID.
func (s *Service) RequestFriend(ctx context.Context, userID, friendID string) error {
	if strings.TrimSpace(friendID) == "" {
		return fmt.Errorf("%w: friendId is required", ErrInvalid)
	}
	if err := s.repos.Friends.Request(ctx, userID, friendID); err != nil {
		return &ServiceError{Op: "request_friend", Err: err}
	}
	log.Info().Str("user_id", userID).Str("friend_id", friendID).Msg("friend requested")
	return nil
}

// ApproveFriend accepts a pending request addressed to userID.
func (s *Service) ApproveFriend(ctx context.Context, userID, friendshipID string) error {
	if strings.TrimSpace(friendshipID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	if err := s.repos.Friends.Approve(ctx, userID, friendshipID); err != nil {
		return &ServiceError{Op: "approve_friend", Err: err}
	}
	return nil
}

// ServiceError represents a social service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "social service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

package viewmodel

import (
	"context"
	"sync"

	"hooked/internal/domain/comment"
	"hooked/internal/domain/epoch"
	"hooked/internal/optimistic"
	"hooked/internal/paging"
)

const CommentsPageSize = 20

// CommentsAPI is what the comment sheet needs from the backend.
type CommentsAPI interface {
	Comments(ctx context.Context, postID string, page, limit int) (comment.ListResponse, error)
	CreateComment(ctx context.Context, postID, content string) error
	EditComment(ctx context.Context, commentID, content string) error
	DeleteComment(ctx context.Context, commentID string) error
}

// Comments is the comment thread under one post.
type Comments struct {
	*paging.Controller[comment.Comment, string]
	thread *optimistic.Coordinator[comment.Comment]
	api    CommentsAPI
	postID string

	mu         sync.Mutex
	submitting bool
	invalid    string
}

func NewComments(api CommentsAPI, postID string, s Settings) *Comments {
	fetch := func(ctx context.Context, id string, page, limit int) (paging.Page[comment.Comment], error) {
		res, err := api.Comments(ctx, id, page, limit)
		if err != nil {
			return paging.Page[comment.Comment]{}, err
		}
		return paging.Page[comment.Comment]{Items: res.Comments, PageNumber: page, PageSize: limit, TotalCount: res.Total}, nil
	}
	c := &Comments{api: api, postID: postID}
	c.Controller = paging.New(fetch, CommentsPageSize, s.pagingOpts("comments", "")...)
	c.thread = optimistic.New[comment.Comment](c.Controller, func(cm comment.Comment) string { return cm.ID }, c.Load,
		s.mutationOpts("comments",
			optimistic.WithMessage(optimistic.KindEdit, "Failed to edit comment"),
			optimistic.WithMessage(optimistic.KindDelete, "Failed to delete comment"),
		)...)
	return c
}

// Load restarts the thread from the first page.
func (c *Comments) Load() { c.ResetAndFetch(c.postID) }

// Create posts a new comment and reloads the thread so it appears with its
// server id and timestamps. IsSubmitting stays true until the reload lands.
func (c *Comments) Create(ctx context.Context, content string) error {
	if !c.validate(content) {
		return comment.ErrEmptyContent
	}
	c.setSubmitting(true)
	defer c.setSubmitting(false)
	err := c.thread.Create(ctx, func(ctx context.Context) error {
		return c.api.CreateComment(ctx, c.postID, content)
	})
	if err == nil {
		c.Wait()
	}
	return err
}

// Edit rewrites a comment in place and puts the old text back if the
// server refuses. Unknown ids are ignored.
func (c *Comments) Edit(ctx context.Context, id, content string) error {
	if !c.validate(content) {
		return comment.ErrEmptyContent
	}
	c.setSubmitting(true)
	defer c.setSubmitting(false)
	return c.thread.Edit(ctx, id, func(cm comment.Comment) comment.Comment {
		cm.Content = content
		cm.UpdatedAt = epoch.Now()
		return cm
	}, func(ctx context.Context) error {
		return c.api.EditComment(ctx, id, content)
	})
}

// Delete removes a comment and reinserts it where it was if the server
// refuses. Unknown ids are ignored.
func (c *Comments) Delete(ctx context.Context, id string) error {
	return c.thread.Delete(ctx, id, func(ctx context.Context) error {
		return c.api.DeleteComment(ctx, id)
	})
}

// IsSubmitting is true while a create or edit is in flight.
func (c *Comments) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// SubmitError is the message for the last rejected or failed mutation.
func (c *Comments) SubmitError() string {
	c.mu.Lock()
	invalid := c.invalid
	c.mu.Unlock()
	if invalid != "" {
		return invalid
	}
	return c.thread.Err()
}

func (c *Comments) ClearErrors() {
	c.ClearError()
	c.thread.ClearError()
	c.mu.Lock()
	c.invalid = ""
	c.mu.Unlock()
}

func (c *Comments) validate(content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if comment.ValidateContent(content) != nil {
		c.invalid = "Comment cannot be empty"
		return false
	}
	c.invalid = ""
	return true
}

func (c *Comments) setSubmitting(v bool) {
	c.mu.Lock()
	c.submitting = v
	c.mu.Unlock()
}

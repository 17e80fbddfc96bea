package client

import (
	"context"
	"net/url"

	"hooked/internal/domain/comment"
)

// Comments returns one page of comments on a post.
func (c *Client) Comments(ctx context.Context, postID string, page, limit int) (comment.ListResponse, error) {
	var out comment.ListResponse
	err := c.getJSON(ctx, "get comments", "/v1/user/post/"+url.PathEscape(postID)+"/comments", pageQuery(page, limit), true, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) error {
	if err := comment.ValidateContent(content); err != nil {
		return err
	}
	return c.send(ctx, "create comment", "POST", "/v1/user/post/"+url.PathEscape(postID)+"/comment",
		comment.ContentRequest{Content: content}, nil, created...)
}

func (c *Client) EditComment(ctx context.Context, commentID, content string) error {
	if err := comment.ValidateContent(content); err != nil {
		return err
	}
	return c.send(ctx, "edit comment", "PUT", "/v1/user/comment/"+url.PathEscape(commentID),
		comment.ContentRequest{Content: content}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.send(ctx, "delete comment", "DELETE", "/v1/user/comment/"+url.PathEscape(commentID), nil, nil, noContent...)
}

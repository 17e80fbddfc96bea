package comment

import (
	"errors"
	"strings"

	"hooked/internal/domain/epoch"
)

var ErrEmptyContent = errors.New("comment cannot be empty")

// Author is the denormalised author block embedded in each comment.
type Author struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	HandleName  string `json:"handleName"`
	ProfileIcon string `json:"profileIcon,omitempty"`
}

type Comment struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	PostID    string       `json:"postId"`
	Content   string       `json:"content"`
	CreatedAt epoch.Millis `json:"createdAt"`
	UpdatedAt epoch.Millis `json:"updatedAt"`
	User      Author       `json:"user"`
}

// ListResponse is one page of comments on a post.
type ListResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// ContentRequest is the body of create and edit calls.
type ContentRequest struct {
	Content string `json:"content"`
}

// ValidateContent rejects blank comment bodies.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

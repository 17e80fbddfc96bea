package post

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"hooked/internal/domain/epoch"
)

// Post validation limits, shared by the client and the dev API.
const (
	MaxDescriptionLen = 500
	MaxTagLen         = 63
	MaxImageBytes     = 5 * 1024 * 1024
)

var (
	ErrEmpty              = errors.New("post must include text or images")
	ErrDescriptionTooLong = fmt.Errorf("description must be %d characters or less", MaxDescriptionLen)
	ErrTagTooLong         = fmt.Errorf("each tag must be less than %d characters", MaxTagLen+1)
	ErrImageTooLarge      = fmt.Errorf("each image must be %d bytes or less", MaxImageBytes)
)

// Content is the free-form part of a post.
type Content struct {
	Description string `json:"description,omitempty"`
}

// Location is where a catch was made.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Post is a single feed item.
type Post struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId,omitempty"`
	Timestamp    epoch.Millis `json:"timestamp"`
	HandleName   string       `json:"handleName,omitempty"`
	FirstName    string       `json:"firstName,omitempty"`
	LastName     string       `json:"lastName,omitempty"`
	ProfileIcon  string       `json:"profileIcon,omitempty"`
	LikeCount    int          `json:"likeCount"`
	Liked        bool         `json:"liked"`
	CommentCount int          `json:"commentCount"`
	Content      Content      `json:"content"`
	Images       []string     `json:"images,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Location     *Location    `json:"location,omitempty"`
}

// FeedResponse is one page of the feed.
type FeedResponse struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int    `json:"total"`
	Data  []Post `json:"data"`
}

// LikeResult is returned by the like toggle endpoint.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// Draft is a post that has not been uploaded yet.
type Draft struct {
	Description string
	Tags        []string
	Location    *Location
	Images      [][]byte
}

// Validate applies the same rules the backend enforces.
func (d Draft) Validate() error {
	desc := strings.TrimSpace(d.Description)
	if desc == "" && len(d.Images) == 0 {
		return ErrEmpty
	}
	if utf8.RuneCountInString(d.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	for _, tag := range d.Tags {
		if utf8.RuneCountInString(tag) > MaxTagLen {
			return ErrTagTooLong
		}
	}
	for _, img := range d.Images {
		if len(img) > MaxImageBytes {
			return ErrImageTooLarge
		}
	}
	return nil
}

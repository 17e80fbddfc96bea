package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"

	"hooked/internal/domain/post"
)

// Feed returns one page of the caller's feed.
func (c *Client) Feed(ctx context.Context, page, limit int) (post.FeedResponse, error) {
	var out post.FeedResponse
	err := c.getJSON(ctx, "get feed", "/v1/user/feed", pageQuery(page, limit), true, &out)
	return out, err
}

// LikePost toggles the caller's like on a post.
func (c *Client) LikePost(ctx context.Context, postID string) (post.LikeResult, error) {
	var out post.LikeResult
	err := c.send(ctx, "like post", "POST", "/v1/user/post/"+url.PathEscape(postID)+"/like", nil, &out)
	return out, err
}

// CreatePost validates d and uploads it as a multipart form.
func (c *Client) CreatePost(ctx context.Context, d post.Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	body, contentType, err := encodeDraft(d)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	resp, err := c.http.PostMultipart(ctx, "/v1/user/post", body, contentType)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return checkStatus("create post", resp, nil, created...)
}

func encodeDraft(d post.Draft) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{}
	if desc := strings.TrimSpace(d.Description); desc != "" {
		fields["content[description]"] = desc
	}
	if len(d.Tags) > 0 {
		fields["tags"] = strings.Join(d.Tags, ",")
	}
	if d.Location != nil {
		fields["location[lat]"] = strconv.FormatFloat(d.Location.Lat, 'f', -1, 64)
		fields["location[lng]"] = strconv.FormatFloat(d.Location.Lng, 'f', -1, 64)
	}
	for _, k := range []string{"content[description]", "tags", "location[lat]", "location[lng]"} {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for i, img := range d.Images {
		part, err := w.CreateFormFile("images", fmt.Sprintf("image_%d.jpg", i))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

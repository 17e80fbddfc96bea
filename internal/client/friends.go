package client

import (
	"context"
	"strings"

	"hooked/internal/domain/user"
)

// Friends lists the caller's friendships with the given status, filtered by
// q. An empty status lists accepted friends.
func (c *Client) Friends(ctx context.Context, q string, status user.FriendStatus, page, limit int) (user.FriendList, error) {
	query := pageQuery(page, limit)
	if q = strings.TrimSpace(q); q != "" {
		query.Set("q", q)
	}
	if status != "" {
		query.Set("status", string(status))
	}
	var out user.FriendList
	err := c.getJSON(ctx, "get friends", "/v1/user/friends", query, true, &out)
	return out, err
}

// Suggestions lists users the caller might want to befriend.
func (c *Client) Suggestions(ctx context.Context, q string, page, limit int) (user.SuggestionList, error) {
	query := pageQuery(page, limit)
	if q = strings.TrimSpace(q); q != "" {
		query.Set("q", q)
	}
	var out user.SuggestionList
	err := c.getJSON(ctx, "get suggestions", "/v1/user/friend/suggestions", query, true, &out)
	return out, err
}

// AddFriend sends a friend request to friendID.
func (c *Client) AddFriend(ctx context.Context, friendID string) error {
	body := map[string]string{"friendId": friendID}
	return c.send(ctx, "add friend", "POST", "/v1/user/friend", body, nil, created...)
}

// ApproveFriend accepts the pending friendship with the given id.
func (c *Client) ApproveFriend(ctx context.Context, friendshipID string) error {
	body := map[string]string{"id": friendshipID}
	return c.send(ctx, "approve friend", "POST", "/v1/user/friend/approve", body, nil, created...)
}

package viewmodel

import (
	"context"
	"slices"

	"hooked/internal/domain/user"
	"hooked/internal/optimistic"
	"hooked/internal/paging"
)

const FriendsPageSize = 50

// FriendsAPI is what the friend screens need from the backend.
type FriendsAPI interface {
	Friends(ctx context.Context, q string, status user.FriendStatus, page, limit int) (user.FriendList, error)
	Suggestions(ctx context.Context, q string, page, limit int) (user.SuggestionList, error)
	AddFriend(ctx context.Context, friendID string) error
	ApproveFriend(ctx context.Context, friendshipID string) error
}

func friendsFetch(api FriendsAPI, status user.FriendStatus) paging.FetchFunc[user.Friend, string] {
	return func(ctx context.Context, q string, page, limit int) (paging.Page[user.Friend], error) {
		res, err := api.Friends(ctx, q, status, page, limit)
		if err != nil {
			return paging.Page[user.Friend]{}, err
		}
		return paging.Page[user.Friend]{Items: res.Users, PageNumber: res.Page, PageSize: res.Limit, TotalCount: res.Total}, nil
	}
}

func friendID(f user.Friend) string { return f.ID }

// Friends lists accepted friends.
type Friends struct {
	*searchList[user.Friend]
}

func NewFriends(api FriendsAPI, s Settings) *Friends {
	return &Friends{newSearchList(friendsFetch(api, user.StatusAccepted), FriendsPageSize, s, "friends")}
}

func (f *Friends) ClearErrors() { f.ClearError() }

// PendingFriends lists incoming requests waiting for approval.
type PendingFriends struct {
	*searchList[user.Friend]
	requests *optimistic.Coordinator[user.Friend]
	api      FriendsAPI
}

func NewPendingFriends(api FriendsAPI, s Settings) *PendingFriends {
	p := &PendingFriends{
		searchList: newSearchList(friendsFetch(api, user.StatusPending), FriendsPageSize, s, "pending_friends"),
		api:        api,
	}
	p.requests = optimistic.New[user.Friend](p.Controller, friendID, p.Refresh, s.mutationOpts("pending_friends")...)
	return p
}

// Approve accepts a request. Success restarts the list with no filter so
// the approved entry disappears; failure reloads it.
func (p *PendingFriends) Approve(ctx context.Context, id string) error {
	if !slices.ContainsFunc(p.Items(), func(f user.Friend) bool { return f.ID == id }) {
		return nil
	}
	p.ClearError()
	err := p.requests.Toggle(ctx, id, nil, func(ctx context.Context) error {
		return p.api.ApproveFriend(ctx, id)
	})
	if err != nil {
		return err
	}
	p.ResetAndFetch("")
	return nil
}

func (p *PendingFriends) MutationError() string { return p.requests.Err() }

func (p *PendingFriends) ClearErrors() {
	p.ClearError()
	p.requests.ClearError()
}

// SuggestedFriends lists people the user may know.
type SuggestedFriends struct {
	*searchList[user.User]
	people *optimistic.Coordinator[user.User]
	api    FriendsAPI
}

func NewSuggestedFriends(api FriendsAPI, s Settings) *SuggestedFriends {
	fetch := func(ctx context.Context, q string, page, limit int) (paging.Page[user.User], error) {
		res, err := api.Suggestions(ctx, q, page, limit)
		if err != nil {
			return paging.Page[user.User]{}, err
		}
		return paging.Page[user.User]{Items: res.Users, PageNumber: res.Page, PageSize: res.Limit, TotalCount: res.Total}, nil
	}
	sf := &SuggestedFriends{
		searchList: newSearchList(fetch, FriendsPageSize, s, "suggested_friends"),
		api:        api,
	}
	sf.people = optimistic.New[user.User](sf.Controller, func(u user.User) string { return u.ID }, sf.Refresh,
		s.mutationOpts("suggested_friends")...)
	return sf
}

// AddFriend marks the user as requested immediately and sends the request.
// Failure reloads the list, which clears the mark.
func (sf *SuggestedFriends) AddFriend(ctx context.Context, userID string) error {
	sf.ClearError()
	return sf.people.Toggle(ctx, userID, func(u user.User) user.User {
		u.FriendRequested = true
		return u
	}, func(ctx context.Context) error {
		return sf.api.AddFriend(ctx, userID)
	})
}

func (sf *SuggestedFriends) MutationError() string { return sf.people.Err() }

func (sf *SuggestedFriends) ClearErrors() {
	sf.ClearError()
	sf.people.ClearError()
}

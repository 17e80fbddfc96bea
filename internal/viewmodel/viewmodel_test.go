package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/comment"
	"hooked/internal/domain/post"
	"hooked/internal/domain/species"
	"hooked/internal/domain/user"
	"hooked/internal/domain/weather"
)

var errRefused = errors.New("refused")

// fakeAPI is an in-memory backend. Fields named fail* make the matching call
// return errRefused.
type fakeAPI struct {
	mu sync.Mutex

	posts    []post.Post
	comments []comment.Comment
	friends  []user.Friend
	people   []user.User
	species  []species.Species

	failLike, failCreate, failEdit, failDelete, failApprove, failAdd, failList, failWeather bool

	createGate chan struct{}
	listGate   chan struct{}
	queries    []string
	listCalls  int
}

func (f *fakeAPI) Feed(_ context.Context, page, limit int) (post.FeedResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return post.FeedResponse{}, errRefused
	}
	return post.FeedResponse{Page: page, Limit: limit, Total: len(f.posts), Data: window(f.posts, page, limit)}, nil
}

func (f *fakeAPI) LikePost(_ context.Context, id string) (post.LikeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLike {
		return post.LikeResult{}, errRefused
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].Liked = !f.posts[i].Liked
			if f.posts[i].Liked {
				f.posts[i].LikeCount += 10 // other users liked it meanwhile
			} else {
				f.posts[i].LikeCount--
			}
			return post.LikeResult{Liked: f.posts[i].Liked, LikeCount: f.posts[i].LikeCount}, nil
		}
	}
	return post.LikeResult{}, errRefused
}

func (f *fakeAPI) CreatePost(_ context.Context, d post.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errRefused
	}
	f.posts = append([]post.Post{{ID: fmt.Sprintf("p%d", len(f.posts)), Content: post.Content{Description: d.Description}}}, f.posts...)
	return nil
}

func (f *fakeAPI) Weather(_ context.Context, lat, lng float64) (weather.Weather, error) {
	if f.failWeather {
		return weather.Weather{}, errRefused
	}
	return weather.Weather{Latitude: lat, Longitude: lng, TemperatureF: 70.4}, nil
}

func (f *fakeAPI) Comments(_ context.Context, postID string, page, limit int) (comment.ListResponse, error) {
	f.mu.Lock()
	gate := f.listGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return comment.ListResponse{}, errRefused
	}
	return comment.ListResponse{Total: len(f.comments), Comments: window(f.comments, page, limit)}, nil
}

func (f *fakeAPI) CreateComment(_ context.Context, postID, content string) error {
	gate := f.createGate
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errRefused
	}
	f.comments = append(f.comments, comment.Comment{ID: fmt.Sprintf("c%d", len(f.comments)), PostID: postID, Content: content})
	return nil
}

func (f *fakeAPI) EditComment(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit {
		return errRefused
	}
	for i := range f.comments {
		if f.comments[i].ID == id {
			f.comments[i].Content = content
		}
	}
	return nil
}

func (f *fakeAPI) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errRefused
	}
	f.comments = slices.DeleteFunc(f.comments, func(c comment.Comment) bool { return c.ID == id })
	return nil
}

func (f *fakeAPI) Friends(_ context.Context, q string, status user.FriendStatus, page, limit int) (user.FriendList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	var match []user.Friend
	for _, fr := range f.friends {
		if fr.Status == status && strings.Contains(strings.ToLower(fr.User.DisplayName()), strings.ToLower(q)) {
			match = append(match, fr)
		}
	}
	return user.FriendList{Page: page, Limit: limit, Total: len(match), Users: window(match, page, limit)}, nil
}

func (f *fakeAPI) Suggestions(_ context.Context, q string, page, limit int) (user.SuggestionList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return user.SuggestionList{Page: page, Limit: limit, Total: len(f.people), Users: window(f.people, page, limit)}, nil
}

func (f *fakeAPI) AddFriend(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd {
		return errRefused
	}
	for i := range f.people {
		if f.people[i].ID == id {
			f.people[i].FriendRequested = true
		}
	}
	return nil
}

func (f *fakeAPI) ApproveFriend(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failApprove {
		return errRefused
	}
	for i := range f.friends {
		if f.friends[i].ID == id {
			f.friends[i].Status = user.StatusAccepted
		}
	}
	return nil
}

func (f *fakeAPI) Species(_ context.Context, q string, page, limit int) (species.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	var match []species.Species
	for _, s := range f.species {
		if strings.Contains(strings.ToLower(s.EnglishName), strings.ToLower(q)) {
			match = append(match, s)
		}
	}
	return species.Response{Page: page, Limit: limit, Total: len(match), Results: window(match, page, limit)}, nil
}

func (f *fakeAPI) Catches(_ context.Context, page, limit int) (catch.Response, error) {
	return catch.Response{}, errRefused
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

func window[T any](all []T, page, limit int) []T {
	lo := (page - 1) * limit
	if lo >= len(all) {
		return nil
	}
	hi := min(lo+limit, len(all))
	return slices.Clone(all[lo:hi])
}

func contents(cs []comment.Comment) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Content
	}
	return out
}

func threeComments() []comment.Comment {
	return []comment.Comment{
		{ID: "c0", Content: "first"},
		{ID: "c1", Content: "second"},
		{ID: "c2", Content: "third"},
	}
}

func TestCommentEditRollsBackInPlace(t *testing.T) {
	api := &fakeAPI{comments: threeComments(), failEdit: true}
	vm := NewComments(api, "p1", Settings{})
	vm.Load()
	vm.Wait()

	err := vm.Edit(context.Background(), "c1", "second, edited")
	require.ErrorIs(t, err, errRefused)
	assert.Equal(t, []string{"first", "second", "third"}, contents(vm.Items()))
	assert.Equal(t, "Failed to edit comment", vm.SubmitError())
	assert.False(t, vm.IsSubmitting())

	api.set(func(f *fakeAPI) { f.failEdit = false })
	require.NoError(t, vm.Edit(context.Background(), "c1", "second, edited"))
	items := vm.Items()
	assert.Equal(t, []string{"first", "second, edited", "third"}, contents(items))
	assert.False(t, items[1].UpdatedAt.IsZero())
	assert.Empty(t, vm.SubmitError())
}

func TestCommentDeleteRollsBackAtIndex(t *testing.T) {
	api := &fakeAPI{comments: threeComments(), failDelete: true}
	vm := NewComments(api, "p1", Settings{})
	vm.Load()
	vm.Wait()

	require.Error(t, vm.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"first", "second", "third"}, contents(vm.Items()))
	assert.Equal(t, "Failed to delete comment", vm.SubmitError())
	assert.Empty(t, vm.State().ErrorMessage, "delete failures do not touch the load error")

	api.set(func(f *fakeAPI) { f.failDelete = false })
	require.NoError(t, vm.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"first", "third"}, contents(vm.Items()))

	require.NoError(t, vm.Delete(context.Background(), "missing"))
}

func TestCommentCreateRejectsBlankAndReloads(t *testing.T) {
	api := &fakeAPI{comments: threeComments()}
	vm := NewComments(api, "p1", Settings{})
	vm.Load()
	vm.Wait()

	assert.ErrorIs(t, vm.Create(context.Background(), "  \n"), comment.ErrEmptyContent)
	assert.Equal(t, "Comment cannot be empty", vm.SubmitError())
	assert.Len(t, api.comments, 3)

	gate := make(chan struct{})
	api.set(func(f *fakeAPI) { f.createGate = gate })
	done := make(chan error, 1)
	go func() { done <- vm.Create(context.Background(), "nice fish") }()

	require.Eventually(t, vm.IsSubmitting, time.Second, time.Millisecond)
	assert.Empty(t, vm.SubmitError(), "a new submission clears the old error")
	close(gate)
	require.NoError(t, <-done)
	assert.False(t, vm.IsSubmitting())
	assert.Equal(t, []string{"first", "second", "third", "nice fish"}, contents(vm.Items()),
		"Create returns after the reload")
}

func TestCommentCreateSubmittingUntilReloaded(t *testing.T) {
	api := &fakeAPI{comments: threeComments()}
	vm := NewComments(api, "p1", Settings{})
	vm.Load()
	vm.Wait()

	reload := make(chan struct{})
	api.set(func(f *fakeAPI) { f.listGate = reload })
	done := make(chan error, 1)
	go func() { done <- vm.Create(context.Background(), "nice fish") }()

	require.Eventually(t, func() bool { return vm.State().IsFetching }, time.Second, time.Millisecond)
	assert.True(t, vm.IsSubmitting(), "still submitting while the thread reloads")

	close(reload)
	require.NoError(t, <-done)
	assert.False(t, vm.IsSubmitting())
	assert.Len(t, vm.Items(), 4)
}

func TestCommentCreateFailureKeepsList(t *testing.T) {
	api := &fakeAPI{comments: threeComments(), failCreate: true}
	vm := NewComments(api, "p1", Settings{})
	vm.Load()
	vm.Wait()

	require.Error(t, vm.Create(context.Background(), "hello"))
	assert.Equal(t, errRefused.Error(), vm.SubmitError())
	assert.Len(t, vm.Items(), 3)

	vm.ClearErrors()
	assert.Empty(t, vm.SubmitError())
}

func TestSpeciesSearchIsDebounced(t *testing.T) {
	api := &fakeAPI{species: []species.Species{
		{EnglishName: "Largemouth bass"},
		{EnglishName: "Smallmouth bass"},
		{EnglishName: "Bluegill"},
	}}
	vm := NewSpecies(api, Settings{Debounce: 30 * time.Millisecond})
	defer vm.Close()

	for _, s := range []string{"b", "ba", "bas", "bass"} {
		vm.Search(s)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(vm.Items()) == 2 }, time.Second, 5*time.Millisecond)
	vm.Wait()

	api.mu.Lock()
	assert.Equal(t, []string{"bass"}, api.queries)
	api.mu.Unlock()
	assert.False(t, vm.HasMore())
}

func TestSearchAfterCloseIsIgnored(t *testing.T) {
	api := &fakeAPI{}
	vm := NewFriends(api, Settings{Debounce: 5 * time.Millisecond})
	vm.Close()
	vm.Search("jo")
	time.Sleep(30 * time.Millisecond)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.queries)
}

func TestPendingApprove(t *testing.T) {
	api := &fakeAPI{friends: []user.Friend{
		{ID: "f1", Status: user.StatusPending, User: user.User{ID: "u1", FirstName: "Jo"}},
		{ID: "f2", Status: user.StatusPending, User: user.User{ID: "u2", FirstName: "Sam"}},
	}}
	vm := NewPendingFriends(api, Settings{})
	defer vm.Close()
	vm.ResetAndFetch("jo")
	vm.Wait()
	require.Len(t, vm.Items(), 1)

	require.NoError(t, vm.Approve(context.Background(), "f1"))
	vm.Wait()
	items := vm.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "f2", items[0].ID)

	api.mu.Lock()
	assert.Equal(t, []string{"jo", ""}, api.queries, "approval restarts the list with an empty query")
	api.mu.Unlock()
}

func TestPendingApproveFailureReloads(t *testing.T) {
	api := &fakeAPI{failApprove: true, friends: []user.Friend{
		{ID: "f1", Status: user.StatusPending, User: user.User{FirstName: "Jo"}},
	}}
	vm := NewPendingFriends(api, Settings{})
	defer vm.Close()
	vm.ResetAndFetch("")
	vm.Wait()

	require.Error(t, vm.Approve(context.Background(), "f1"))
	vm.Wait()
	assert.Equal(t, errRefused.Error(), vm.MutationError())
	assert.Len(t, vm.Items(), 1)

	api.mu.Lock()
	assert.Len(t, api.queries, 2)
	api.mu.Unlock()

	require.NoError(t, vm.Approve(context.Background(), "nope"))
	api.mu.Lock()
	assert.Len(t, api.queries, 2, "unknown ids are ignored")
	api.mu.Unlock()
}

func TestSuggestedAddFriend(t *testing.T) {
	api := &fakeAPI{people: []user.User{{ID: "u1"}, {ID: "u2"}}}
	vm := NewSuggestedFriends(api, Settings{})
	defer vm.Close()
	vm.ResetAndFetch("")
	vm.Wait()

	require.NoError(t, vm.AddFriend(context.Background(), "u2"))
	assert.True(t, vm.Items()[1].FriendRequested)

	api.set(func(f *fakeAPI) { f.failAdd = true })
	require.Error(t, vm.AddFriend(context.Background(), "u1"))
	vm.Wait()
	items := vm.Items()
	assert.False(t, items[0].FriendRequested, "the reload drops the optimistic mark")
	assert.True(t, items[1].FriendRequested)
	assert.NotEmpty(t, vm.MutationError())

	vm.ClearErrors()
	assert.Empty(t, vm.MutationError())
}

func TestFeedLikeSettlesFromServer(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{{ID: "p1", LikeCount: 2}}}
	vm := NewFeed(api, Settings{})
	vm.Load()
	vm.Wait()

	require.NoError(t, vm.Like(context.Background(), "p1"))
	p := vm.Items()[0]
	assert.True(t, p.Liked)
	assert.Equal(t, 12, p.LikeCount)

	api.set(func(f *fakeAPI) { f.failLike = true })
	require.Error(t, vm.Like(context.Background(), "p1"))
	vm.Wait()
	p = vm.Items()[0]
	assert.True(t, p.Liked, "the reload restores the server view")
	assert.Equal(t, 12, p.LikeCount)
}

func TestFeedCreatePost(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{{ID: "old"}}}
	vm := NewFeed(api, Settings{})
	vm.Load()
	vm.Wait()

	assert.ErrorIs(t, vm.CreatePost(context.Background(), post.Draft{}), post.ErrEmpty)
	assert.False(t, vm.PostCreated())

	require.NoError(t, vm.CreatePost(context.Background(), post.Draft{Description: "Pike on a spoon"}))
	vm.Wait()
	assert.True(t, vm.PostCreated())
	items := vm.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Pike on a spoon", items[0].Content.Description)

	api.set(func(f *fakeAPI) { f.failCreate = true })
	require.Error(t, vm.CreatePost(context.Background(), post.Draft{Description: "again"}))
	assert.Equal(t, "Failed to create post at this time. Please try again.", vm.MutationError())
	assert.False(t, vm.PostCreated())
}

func TestFeedLoadErrorAndWeather(t *testing.T) {
	api := &fakeAPI{failList: true}
	vm := NewFeed(api, Settings{})
	vm.Load()
	vm.Wait()
	assert.Equal(t, "Failed to retrieve feed at this time.", vm.State().ErrorMessage)

	vm.LoadWeather(context.Background(), 44.9, -93.2)
	require.NotNil(t, vm.Weather())
	assert.Equal(t, "70°F", vm.Weather().FormattedTemperature())

	api.failWeather = true
	vm.LoadWeather(context.Background(), 0, 0)
	assert.Equal(t, 44.9, vm.Weather().Latitude, "a failed refresh keeps the last reading")

	vm.ClearErrors()
	assert.Empty(t, vm.State().ErrorMessage)
}

func TestCatchesErrorMessage(t *testing.T) {
	vm := NewCatches(&fakeAPI{}, Settings{})
	vm.Load()
	vm.Wait()
	assert.Equal(t, "Failed to retrieve your catches at this time.", vm.State().ErrorMessage)
}

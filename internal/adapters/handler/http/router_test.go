package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type MockAPI struct {
	mock.Mock
}

var _ ports.RemoteAPI = (*MockAPI)(nil)

func (m *MockAPI) ToggleLike(ctx context.Context, postID string) (domain.LikeState, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(domain.LikeState), args.Error(1)
}

func (m *MockAPI) ToggleFollow(ctx context.Context, userID string) (domain.FollowState, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.FollowState), args.Error(1)
}

func (m *MockAPI) Share(ctx context.Context, postID string, input ports.ShareInput) error {
	return m.Called(ctx, postID, input).Error(0)
}

func (m *MockAPI) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *MockAPI) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) Vote(ctx context.Context, pollPostID string, optionIDs []int) (domain.PollContent, error) {
	args := m.Called(ctx, pollPostID, optionIDs)
	return args.Get(0).(domain.PollContent), args.Error(1)
}

func (m *MockAPI) Unvote(ctx context.Context, pollPostID string) error {
	return m.Called(ctx, pollPostID).Error(0)
}

func (m *MockAPI) GetPoll(ctx context.Context, pollPostID string) (domain.PollContent, error) {
	args := m.Called(ctx, pollPostID)
	return args.Get(0).(domain.PollContent), args.Error(1)
}

func (m *MockAPI) ListComments(ctx context.Context, postID string, page, pageSize int) (domain.CommentPage, error) {
	args := m.Called(ctx, postID, page, pageSize)
	return args.Get(0).(domain.CommentPage), args.Error(1)
}

func (m *MockAPI) AddComment(ctx context.Context, postID string, input ports.AddCommentInput) error {
	return m.Called(ctx, postID, input).Error(0)
}

func (m *MockAPI) ToggleCommentLike(ctx context.Context, commentID string) (domain.LikeState, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(domain.LikeState), args.Error(1)
}

func (m *MockAPI) EditComment(ctx context.Context, commentID, text string) (domain.Comment, error) {
	args := m.Called(ctx, commentID, text)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *MockAPI) DeleteComment(ctx context.Context, commentID string) error {
	return m.Called(ctx, commentID).Error(0)
}

func (m *MockAPI) ListEvents(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockAPI) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tournament), args.Error(1)
}

type testApp struct {
	Server  *httptest.Server
	API     *MockAPI
	Signals *services.Signals
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	api := new(MockAPI)
	signals := services.NewSignals()
	controller := services.NewController(signals, nil, nil)
	session := services.NewSession(api, nil, controller, nil, nil)
	t.Cleanup(session.Close)
	discovery := services.NewDiscoveryService(api, nil)

	handler := NewHandler(Handlers{
		Posts:    NewPostHandler(session),
		Users:    NewUserHandler(session),
		Polls:    NewPollHandler(session),
		Comments: NewCommentHandler(session, 2, 3),
		Search:   NewSearchHandler(discovery),
		Signals:  NewSignalHandler(signals),
	}, []string{"*"})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &testApp{Server: server, API: api, Signals: signals}
}

func (a *testApp) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.Server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func plainPost(id string, liked bool, likes int) *domain.Post {
	p := domain.NewDefaultPost(id, domain.Author{ID: "u1", Username: "lefty"}, domain.DefaultContent{Text: "300!"})
	p.ViewerHasLiked = liked
	p.LikeCount = likes
	return p
}

func TestLikeFlow(t *testing.T) {
	app := setupTestApp(t)
	app.API.On("GetPost", mock.Anything, "p1").Return(plainPost("p1", false, 10), nil)
	app.API.On("ToggleLike", mock.Anything, "p1").Return(domain.LikeState{Liked: true, Count: 11}, nil).Once()
	app.API.On("ToggleLike", mock.Anything, "p1").Return(domain.LikeState{}, &domain.RemoteError{StatusCode: 503}).Once()

	resp := app.do(t, http.MethodGet, "/api/posts/p1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/api/posts/p1/like", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	post := decode[domain.Post](t, resp)
	assert.True(t, post.ViewerHasLiked)
	assert.Equal(t, 11, post.LikeCount)

	resp = app.do(t, http.MethodPost, "/api/posts/p1/like", "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Transient"))

	resp = app.do(t, http.MethodGet, "/api/posts/p1", "")
	post = decode[domain.Post](t, resp)
	assert.True(t, post.ViewerHasLiked, "failed unlike restored the liked state")
	assert.Equal(t, 11, post.LikeCount)

	resp = app.do(t, http.MethodGet, "/api/signals", "")
	failures := decode[[]domain.Outcome](t, resp)
	require.Len(t, failures, 1)
	assert.Equal(t, domain.KindLike, failures[0].Key.Kind)

	resp = app.do(t, http.MethodDelete, "/api/signals/post/p1/like", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = app.do(t, http.MethodGet, "/api/signals", "")
	assert.Empty(t, decode[[]domain.Outcome](t, resp))
}

func TestUnknownPost(t *testing.T) {
	app := setupTestApp(t)
	app.API.On("GetPost", mock.Anything, "nope").Return(nil, domain.ErrPostNotFound)

	resp := app.do(t, http.MethodGet, "/api/posts/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPollFlow(t *testing.T) {
	app := setupTestApp(t)
	poll := domain.PollContent{
		Title: "Oil?",
		Type:  domain.PollSingle,
		Options: []domain.PollOption{
			{ID: 1, Text: "House", VoteCount: 1},
			{ID: 2, Text: "Sport", VoteCount: 1},
		},
		TotalVotes: 2,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	app.API.On("GetPost", mock.Anything, "p1").Return(domain.NewPollPost("p1", domain.Author{ID: "u1"}, poll), nil)

	voted := poll.Clone()
	voted.Options[1].VoteCount = 2
	voted.Options[1].ViewerHasVoted = true
	app.API.On("Vote", mock.Anything, "p1", []int{2}).Return(voted, nil)

	resp := app.do(t, http.MethodPost, "/api/posts/p1/poll/select", `{"option_id": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{2}, decode[services.PollView](t, resp).Selected)

	resp = app.do(t, http.MethodPost, "/api/posts/p1/poll/vote", `{"option_ids": [1, 2]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodPost, "/api/posts/p1/poll/vote", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[services.PollView](t, resp)
	assert.Equal(t, 3, view.Poll.TotalVotes)
	assert.Greater(t, view.Seconds, 0)

	resp = app.do(t, http.MethodGet, "/api/posts/p1/poll/results", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExpiredPoll(t *testing.T) {
	app := setupTestApp(t)
	poll := domain.PollContent{
		Type:       domain.PollSingle,
		Options:    []domain.PollOption{{ID: 1, VoteCount: 3}, {ID: 2, VoteCount: 1}},
		TotalVotes: 4,
		HasExpired: true,
	}
	app.API.On("GetPost", mock.Anything, "p1").Return(domain.NewPollPost("p1", domain.Author{ID: "u1"}, poll), nil)

	resp := app.do(t, http.MethodPost, "/api/posts/p1/poll/vote", `{"option_ids": [1]}`)
	assert.Equal(t, http.StatusGone, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/posts/p1/poll/results", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode[[]domain.PollResult](t, resp)
	require.Len(t, results, 2)
	assert.True(t, results[0].Leading)
	app.API.AssertNotCalled(t, "Vote", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentFlow(t *testing.T) {
	app := setupTestApp(t)
	app.API.On("GetPost", mock.Anything, "p1").Return(plainPost("p1", false, 0), nil)
	app.API.On("ListComments", mock.Anything, "p1", 1, 3).Return(domain.CommentPage{
		Results: []domain.Comment{{ID: "c1", PostID: "p1", Text: "hi"}},
		Count:   1,
	}, nil)

	resp := app.do(t, http.MethodGet, "/api/posts/p1/comments", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.EqualValues(t, 1, body["count"])
	assert.Equal(t, false, body["has_more"])

	resp = app.do(t, http.MethodPost, "/api/posts/p1/comments", `{"text": "   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodDelete, "/api/posts/p1/comments/c1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	app.API.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)

	app.API.On("DeleteComment", mock.Anything, "c1").Return(nil)
	resp = app.do(t, http.MethodDelete, "/api/posts/p1/comments/c1?confirm=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	assert.EqualValues(t, 0, body["count"])
}

func TestCommentPageSizes(t *testing.T) {
	app := setupTestApp(t)
	app.API.On("GetPost", mock.Anything, "p1").Return(plainPost("p1", false, 0), nil)
	app.API.On("ListComments", mock.Anything, "p1", 1, 2).Return(domain.CommentPage{Count: 0}, nil)
	app.API.On("ListComments", mock.Anything, "p1", 1, 5).Return(domain.CommentPage{Count: 0}, nil)

	resp := app.do(t, http.MethodGet, "/api/posts/p1/comments?view=inline", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = app.do(t, http.MethodGet, "/api/posts/p1/comments?view=inline&page_size=5", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	app.API.AssertExpectations(t)
}

func TestCommentsOfUnknownPost(t *testing.T) {
	app := setupTestApp(t)
	app.API.On("GetPost", mock.Anything, "nope").Return(nil, domain.ErrPostNotFound)

	resp := app.do(t, http.MethodGet, "/api/posts/nope/comments", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	app.API.AssertNotCalled(t, "ListComments", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch(t *testing.T) {
	app := setupTestApp(t)
	app.API.On("ListEvents", mock.Anything).Return([]domain.Event{
		{ID: "e1", Title: "Queens Open", StartsAt: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC), Location: domain.Location{Zipcode: "11368"}},
		{ID: "e2", Title: "Bronx Bash", StartsAt: time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC), Location: domain.Location{Zipcode: "10451"}},
	}, nil)

	resp := app.do(t, http.MethodGet, "/api/search/events?location=11368&radius=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]domain.Event](t, resp)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)

	resp = app.do(t, http.MethodGet, "/api/search/events?radius=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(t, http.MethodGet, "/api/calendar?year=2026&month=3&tz=UTC", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	grid := decode[map[string]any](t, resp)
	assert.Len(t, grid["cells"], services.GridCells)

	resp = app.do(t, http.MethodGet, "/api/calendar?year=2026&month=3&tz=Mars/Olympus", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

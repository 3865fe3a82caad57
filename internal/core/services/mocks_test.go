package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// MockAPI is a testify mock of every remote port.
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
	args := m.Called(ctx, postID, input)
	return args.Error(0)
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
	args := m.Called(ctx, pollPostID)
	return args.Error(0)
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
	args := m.Called(ctx, postID, input)
	return args.Error(0)
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
	args := m.Called(ctx, commentID)
	return args.Error(0)
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

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	ticks chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ticks: make(chan time.Time, 1)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) NewTicker(time.Duration) (<-chan time.Time, func()) {
	return c.ticks, func() {}
}

// Fire delivers one tick to a running engine.
func (c *fakeClock) Fire() {
	c.ticks <- c.Now()
}

type recordingNotifier struct {
	mu       sync.Mutex
	outcomes []domain.Outcome
}

func (r *recordingNotifier) Notify(_ context.Context, o domain.Outcome) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
}

func (r *recordingNotifier) Statuses() []domain.OutcomeStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.OutcomeStatus, len(r.outcomes))
	for i, o := range r.outcomes {
		out[i] = o.Status
	}
	return out
}

func (r *recordingNotifier) Last() domain.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[len(r.outcomes)-1]
}

var testNow = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

func newTestController() (*Controller, *recordingNotifier) {
	rec := &recordingNotifier{}
	return NewController(rec, newFakeClock(testNow), nil), rec
}

func likedPost(id string, liked bool, count int) *domain.Post {
	p := domain.NewDefaultPost(id, domain.Author{ID: "u1", Username: "lefty"}, domain.DefaultContent{Text: "league night"})
	p.ViewerHasLiked = liked
	p.LikeCount = count
	return p
}

func likeStateOf(p domain.Post) domain.LikeState {
	return p.LikeState()
}

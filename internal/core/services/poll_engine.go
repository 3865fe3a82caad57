package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// PollView is what a view renders for one poll.
type PollView struct {
	PostID    string             `json:"post_id"`
	Poll      domain.PollContent `json:"poll"`
	Selected  []int              `json:"selected"`
	Closed    bool               `json:"closed"`
	Remaining time.Duration      `json:"-"`
	Seconds   int                `json:"remaining_seconds"`
	Voting    bool               `json:"voting"`
}

// PollEngine tracks one poll: local option selection, the countdown and
// vote/unvote against the remote. Open -> Closed is one way.
type PollEngine struct {
	mu         sync.Mutex
	postID     string
	poll       domain.PollContent
	selected   map[int]struct{}
	closed     bool
	remaining  time.Duration
	detached   bool
	stopTicker func()

	api        ports.PollAPI
	controller *Controller
	clock      ports.Clock
	logger     *zap.Logger
}

func NewPollEngine(postID string, poll domain.PollContent, api ports.PollAPI, controller *Controller, clock ports.Clock, logger *zap.Logger) *PollEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &PollEngine{
		postID:     postID,
		selected:   make(map[int]struct{}),
		api:        api,
		controller: controller,
		clock:      clock,
		logger:     logger.With(zap.String("poll", postID)),
	}
	e.hydrate(poll)
	return e
}

func (e *PollEngine) voteKey() domain.TargetKey {
	return domain.TargetKey{Entity: domain.EntityPost, ID: e.postID, Kind: domain.KindVote}
}

// Start runs the once-per-second countdown until the poll closes or Stop
// is called.
func (e *PollEngine) Start() {
	e.mu.Lock()
	if e.stopTicker != nil || e.closed || e.detached {
		e.mu.Unlock()
		return
	}
	ticks, stop := e.clock.NewTicker(time.Second)
	done := make(chan struct{})
	var once sync.Once
	e.stopTicker = func() {
		once.Do(func() {
			stop()
			close(done)
		})
	}
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticks:
				if e.Tick() {
					e.mu.Lock()
					e.clearTicker()
					e.mu.Unlock()
					return
				}
			}
		}
	}()
}

// Stop clears the countdown timer and detaches the engine; responses still
// in flight are discarded.
func (e *PollEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detached = true
	e.clearTicker()
}

func (e *PollEngine) clearTicker() {
	if e.stopTicker != nil {
		e.stopTicker()
		e.stopTicker = nil
	}
}

// Tick recomputes the countdown from the clock and reports whether the
// poll is closed.
func (e *PollEngine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshLocked()
	return e.closed
}

func (e *PollEngine) refreshLocked() {
	now := e.clock.Now()
	if e.closed {
		e.remaining = 0
		return
	}
	if e.poll.Expired(now) {
		e.closeLocked()
		return
	}
	if e.poll.ExpiresAt.IsZero() {
		e.remaining = 0
		return
	}
	e.remaining = e.poll.ExpiresAt.Sub(now)
}

func (e *PollEngine) closeLocked() {
	if !e.closed {
		e.logger.Debug("poll closed")
	}
	e.closed = true
	e.poll.HasExpired = true
	e.remaining = 0
	clear(e.selected)
}

func (e *PollEngine) hydrate(poll domain.PollContent) {
	poll = poll.Clone()
	if poll.Normalize() {
		e.logger.Warn("poll snapshot was inconsistent, recomputed from option counts",
			zap.Int("total_votes", poll.TotalVotes))
	}
	e.poll = poll
	clear(e.selected)
	for _, id := range poll.VotedOptionIDs() {
		e.selected[id] = struct{}{}
	}
	if poll.HasExpired || e.closed {
		e.closeLocked()
	}
	e.refreshLocked()
}

// Hydrate replaces the poll with a fresher server copy.
func (e *PollEngine) Hydrate(poll domain.PollContent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detached {
		return
	}
	e.hydrate(poll)
}

// SelectOption changes the local selection only. Single choice polls keep
// one option; multiple choice polls toggle membership.
func (e *PollEngine) SelectOption(optionID int) ([]int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshLocked()
	if e.closed {
		return nil, domain.ErrPollClosed
	}
	if _, ok := e.poll.Option(optionID); !ok {
		return nil, domain.ErrUnknownOption
	}

	if e.poll.Type == domain.PollSingle {
		clear(e.selected)
		e.selected[optionID] = struct{}{}
	} else if _, on := e.selected[optionID]; on {
		delete(e.selected, optionID)
	} else {
		e.selected[optionID] = struct{}{}
	}
	return e.selectionLocked(), nil
}

func (e *PollEngine) selectionLocked() []int {
	ids := make([]int, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Vote submits optionIDs, or the current selection when none are given.
// On success the whole option list is replaced by the remote snapshot.
func (e *PollEngine) Vote(ctx context.Context, optionIDs ...int) (PollView, error) {
	err := e.vote(ctx, optionIDs)
	return e.View(), err
}

func (e *PollEngine) vote(ctx context.Context, optionIDs []int) error {
	e.mu.Lock()
	e.refreshLocked()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrPollClosed
	}
	if len(optionIDs) == 0 {
		optionIDs = e.selectionLocked()
	}
	if err := e.validateVoteLocked(optionIDs); err != nil {
		e.mu.Unlock()
		return err
	}
	key := e.voteKey()
	if !e.controller.TryAcquire(key) {
		e.mu.Unlock()
		return domain.ErrVoteInFlight
	}
	e.mu.Unlock()
	defer e.controller.Release(key)

	e.controller.Report(ctx, key, domain.OutcomePending, nil)
	snapshot, err := e.api.Vote(ctx, e.postID, optionIDs)
	if err != nil {
		return e.reportFailure(ctx, key, fmt.Errorf("vote on poll %s: %w", e.postID, err))
	}
	return e.applySnapshot(ctx, key, snapshot, false)
}

func (e *PollEngine) validateVoteLocked(optionIDs []int) error {
	if len(optionIDs) == 0 {
		return domain.ErrNoOptionSelected
	}
	if e.poll.Type == domain.PollSingle && len(optionIDs) > 1 {
		return domain.ErrTooManyOptions
	}
	seen := make(map[int]struct{}, len(optionIDs))
	for _, id := range optionIDs {
		if _, ok := e.poll.Option(id); !ok {
			return domain.ErrUnknownOption
		}
		if _, dup := seen[id]; dup {
			return domain.ErrUnknownOption
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Unvote withdraws the viewer's vote and re-fetches the full poll.
func (e *PollEngine) Unvote(ctx context.Context) (PollView, error) {
	err := e.withdraw(ctx)
	return e.View(), err
}

func (e *PollEngine) withdraw(ctx context.Context) error {
	e.mu.Lock()
	e.refreshLocked()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrPollClosed
	}
	if !e.poll.HasVoted() {
		e.mu.Unlock()
		return domain.ErrNotVoted
	}
	key := e.voteKey()
	if !e.controller.TryAcquire(key) {
		e.mu.Unlock()
		return domain.ErrVoteInFlight
	}
	e.mu.Unlock()
	defer e.controller.Release(key)

	e.controller.Report(ctx, key, domain.OutcomePending, nil)
	snapshot, err := e.unvote(ctx)
	if err != nil {
		return e.reportFailure(ctx, key, err)
	}
	return e.applySnapshot(ctx, key, snapshot, true)
}

func (e *PollEngine) unvote(ctx context.Context) (domain.PollContent, error) {
	if err := e.api.Unvote(ctx, e.postID); err != nil {
		return domain.PollContent{}, fmt.Errorf("unvote poll %s: %w", e.postID, err)
	}
	snapshot, err := e.api.GetPoll(ctx, e.postID)
	if err != nil {
		return domain.PollContent{}, fmt.Errorf("refetch poll %s: %w", e.postID, err)
	}
	return snapshot, nil
}

// reportFailure leaves state untouched. A failure on a released poll is
// reported as discarded.
func (e *PollEngine) reportFailure(ctx context.Context, key domain.TargetKey, err error) error {
	e.mu.Lock()
	detached := e.detached
	e.mu.Unlock()
	if detached {
		e.controller.Report(ctx, key, domain.OutcomeDiscarded, domain.ErrStaleTarget)
		return domain.ErrStaleTarget
	}
	e.controller.Report(ctx, key, domain.OutcomeFailed, err)
	return err
}

// applySnapshot replaces the poll with the server copy. A withdrawn vote
// leaves the selection empty even if the snapshot still lags behind.
func (e *PollEngine) applySnapshot(ctx context.Context, key domain.TargetKey, snapshot domain.PollContent, withdrawn bool) error {
	e.mu.Lock()
	if e.detached || e.closed {
		e.mu.Unlock()
		e.controller.Report(ctx, key, domain.OutcomeDiscarded, domain.ErrStaleTarget)
		return domain.ErrStaleTarget
	}
	e.hydrate(snapshot)
	if withdrawn {
		clear(e.selected)
	}
	e.mu.Unlock()

	e.controller.Report(ctx, key, domain.OutcomeSucceeded, nil)
	return nil
}

// Results is the read-only view, available once the poll has closed.
func (e *PollEngine) Results() ([]domain.PollResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshLocked()
	if !e.closed {
		return nil, domain.ErrPollOpen
	}
	return domain.ResultsOf(e.poll), nil
}

func (e *PollEngine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refreshLocked()
	return e.closed
}

func (e *PollEngine) View() PollView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PollView{
		PostID:    e.postID,
		Poll:      e.poll.Clone(),
		Selected:  e.selectionLocked(),
		Closed:    e.closed,
		Remaining: e.remaining,
		Seconds:   int(e.remaining.Round(time.Second) / time.Second),
		Voting:    e.controller.InFlight(e.voteKey()),
	}
}

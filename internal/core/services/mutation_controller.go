package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// Controller owns the per-target in-flight guard shared by every
// optimistic interaction. The guard is local only; the remote gets no
// idempotency key.
type Controller struct {
	mu       sync.Mutex
	inFlight map[domain.TargetKey]struct{}
	notifier ports.OutcomeNotifier
	clock    ports.Clock
	logger   *zap.Logger
}

func NewController(notifier ports.OutcomeNotifier, clock ports.Clock, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		inFlight: make(map[domain.TargetKey]struct{}),
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (c *Controller) TryAcquire(key domain.TargetKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *Controller) Release(key domain.TargetKey) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

func (c *Controller) InFlight(key domain.TargetKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inFlight[key]
	return busy
}

// Report publishes an outcome for key. A nil err with a terminal status
// means success; ErrStaleTarget is reported as discarded, never as failed.
func (c *Controller) Report(ctx context.Context, key domain.TargetKey, status domain.OutcomeStatus, err error) {
	outcome := domain.Outcome{Key: key, Status: status, At: c.clock.Now()}
	if err != nil {
		if errors.Is(err, domain.ErrStaleTarget) {
			outcome.Status = domain.OutcomeDiscarded
		} else {
			outcome.Error = err.Error()
			outcome.Transient = domain.IsTransient(err)
		}
	}

	log := c.logger.With(
		zap.String("entity", string(key.Entity)),
		zap.String("id", key.ID),
		zap.String("kind", string(key.Kind)),
		zap.String("status", string(outcome.Status)),
	)
	switch outcome.Status {
	case domain.OutcomeFailed:
		log.Warn("mutation failed", zap.Error(err), zap.Bool("transient", outcome.Transient))
	default:
		log.Debug("mutation outcome")
	}

	c.notifier.Notify(ctx, outcome)
}

// Mutation describes one optimistic change: Propose computes the
// speculative state, Call talks to the remote and Reconcile folds the
// authoritative answer into the final state. A nil Reconcile keeps the
// proposed state, for calls that return nothing.
type Mutation[S, R any] struct {
	Key       domain.TargetKey
	Propose   func(S) S
	Call      func(ctx context.Context) (R, error)
	Reconcile func(proposed S, resp R) S
}

// Apply runs m against target: it renders the proposed state at once,
// waits for the remote, then either stores the authoritative state or
// restores the previous one exactly. Nothing is retried.
func Apply[S, R any](ctx context.Context, c *Controller, target Target[S], m Mutation[S, R]) (S, error) {
	if !c.TryAcquire(m.Key) {
		var zero S
		return zero, domain.ErrMutationInFlight
	}
	defer c.Release(m.Key)

	prev, ok := target.Load()
	if !ok {
		return prev, domain.ErrStaleTarget
	}
	intent := domain.Intent[S]{Key: m.Key, Previous: prev, Proposed: m.Propose(prev)}
	target.Store(intent.Proposed)
	c.Report(ctx, m.Key, domain.OutcomePending, nil)

	resp, err := m.Call(ctx)

	if !target.Active() {
		c.Report(ctx, m.Key, domain.OutcomeDiscarded, domain.ErrStaleTarget)
		return intent.Previous, domain.ErrStaleTarget
	}

	if err != nil {
		target.Store(intent.Previous)
		c.Report(ctx, m.Key, domain.OutcomeFailed, err)
		return intent.Previous, err
	}

	final := intent.Proposed
	if m.Reconcile != nil {
		final = m.Reconcile(intent.Proposed, resp)
	}
	if !target.Store(final) {
		c.Report(ctx, m.Key, domain.OutcomeDiscarded, domain.ErrStaleTarget)
		return intent.Previous, domain.ErrStaleTarget
	}
	c.Report(ctx, m.Key, domain.OutcomeSucceeded, nil)
	return final, nil
}

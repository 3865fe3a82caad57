package services

import (
	"context"
	"sort"
	"sync"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, domain.Outcome) {}

// Notifiers fans an outcome out to several notifiers in order.
type Notifiers []ports.OutcomeNotifier

func (ns Notifiers) Notify(ctx context.Context, outcome domain.Outcome) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, outcome)
		}
	}
}

// Signals keeps the latest outcome per target so a view can draw a spinner
// or a dismissible error without subscribing to anything.
type Signals struct {
	mu     sync.RWMutex
	latest map[domain.TargetKey]domain.Outcome
}

func NewSignals() *Signals {
	return &Signals{latest: make(map[domain.TargetKey]domain.Outcome)}
}

func (s *Signals) Notify(_ context.Context, outcome domain.Outcome) {
	s.mu.Lock()
	s.latest[outcome.Key] = outcome
	s.mu.Unlock()
}

func (s *Signals) Get(key domain.TargetKey) (domain.Outcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.latest[key]
	return o, ok
}

func (s *Signals) Pending(key domain.TargetKey) bool {
	o, ok := s.Get(key)
	return ok && o.Status == domain.OutcomePending
}

// Dismiss clears a failure once the user has seen it.
func (s *Signals) Dismiss(key domain.TargetKey) {
	s.mu.Lock()
	if o, ok := s.latest[key]; ok && o.Status == domain.OutcomeFailed {
		delete(s.latest, key)
	}
	s.mu.Unlock()
}

// Failures lists undismissed failures, newest first.
func (s *Signals) Failures() []domain.Outcome {
	s.mu.RLock()
	var out []domain.Outcome
	for _, o := range s.latest {
		if o.Status == domain.OutcomeFailed {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out
}

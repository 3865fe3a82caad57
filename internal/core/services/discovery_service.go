package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// DiscoveryService serves event and tournament search and the event
// calendar. The last successful lists stay in use when a refresh fails.
type DiscoveryService struct {
	mu          sync.RWMutex
	events      []domain.Event
	tournaments []domain.Tournament
	loadedE     bool
	loadedT     bool

	api      ports.DiscoveryAPI
	resolver *LocationResolver
}

func NewDiscoveryService(api ports.DiscoveryAPI, resolver *LocationResolver) *DiscoveryService {
	return &DiscoveryService{api: api, resolver: resolver}
}

// SetLocation feeds the debounced geocoder with search box text.
func (s *DiscoveryService) SetLocation(text string) {
	if s.resolver != nil {
		s.resolver.Update(text)
	}
}

// center returns the resolved center only if it belongs to text.
func (s *DiscoveryService) center(text string) *domain.Coordinates {
	if s.resolver == nil {
		return nil
	}
	current, c := s.resolver.Current()
	if c == nil || !strings.EqualFold(current, strings.TrimSpace(text)) {
		return nil
	}
	return c
}

func (s *DiscoveryService) Events(ctx context.Context) ([]domain.Event, error) {
	events, err := s.api.ListEvents(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !s.loadedE {
			return nil, fmt.Errorf("list events: %w", err)
		}
		return append([]domain.Event(nil), s.events...), nil
	}
	s.events, s.loadedE = events, true
	return append([]domain.Event(nil), events...), nil
}

func (s *DiscoveryService) Tournaments(ctx context.Context) ([]domain.Tournament, error) {
	tournaments, err := s.api.ListTournaments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !s.loadedT {
			return nil, fmt.Errorf("list tournaments: %w", err)
		}
		return append([]domain.Tournament(nil), s.tournaments...), nil
	}
	s.tournaments, s.loadedT = tournaments, true
	return append([]domain.Tournament(nil), tournaments...), nil
}

func (s *DiscoveryService) SearchEvents(ctx context.Context, q SearchQuery) ([]domain.Event, error) {
	if err := validateInput(q); err != nil {
		return nil, err
	}
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByRadius(events, q, s.center(q.LocationText)), nil
}

func (s *DiscoveryService) SearchTournaments(ctx context.Context, q SearchQuery) ([]domain.Tournament, error) {
	if err := validateInput(q); err != nil {
		return nil, err
	}
	tournaments, err := s.Tournaments(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByRadius(tournaments, q, s.center(q.LocationText)), nil
}

func (s *DiscoveryService) Calendar(ctx context.Context, year int, month time.Month, loc *time.Location) (MonthGrid[domain.Event], error) {
	if month < time.January || month > time.December {
		return MonthGrid[domain.Event]{}, &domain.ValidationError{Field: "month", Reason: "must be 1-12"}
	}
	events, err := s.Events(ctx)
	if err != nil {
		return MonthGrid[domain.Event]{}, err
	}
	return BuildMonthGrid(year, month, events, loc), nil
}

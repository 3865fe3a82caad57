package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type DiscoveryAPI interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	ListTournaments(ctx context.Context) ([]domain.Tournament, error)
}

// RemoteAPI is everything the REST client offers.
type RemoteAPI interface {
	InteractionAPI
	PostAPI
	PollAPI
	CommentAPI
	DiscoveryAPI
}

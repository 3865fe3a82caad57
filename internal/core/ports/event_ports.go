package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type OutcomeNotifier interface {
	Notify(ctx context.Context, outcome domain.Outcome)
}

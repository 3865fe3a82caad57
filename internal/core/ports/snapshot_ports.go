package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type SnapshotRepository interface {
	SavePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPostIDs(ctx context.Context) ([]string, error)
	MarkDeleted(ctx context.Context, id string) error
}

type SnapshotService interface {
	RefreshAll(ctx context.Context) (SyncReport, error)
}

type SyncReport struct {
	Refreshed int
	Failed    map[string]error
}

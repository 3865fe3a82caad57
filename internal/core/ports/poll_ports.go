package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type PollAPI interface {
	Vote(ctx context.Context, pollPostID string, optionIDs []int) (domain.PollContent, error)
	Unvote(ctx context.Context, pollPostID string) error
	GetPoll(ctx context.Context, pollPostID string) (domain.PollContent, error)
}

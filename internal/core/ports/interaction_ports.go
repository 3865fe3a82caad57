package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type InteractionAPI interface {
	ToggleLike(ctx context.Context, postID string) (domain.LikeState, error)
	ToggleFollow(ctx context.Context, userID string) (domain.FollowState, error)
	Share(ctx context.Context, postID string, input ShareInput) error
}

type ShareInput struct {
	Description string `json:"description,omitempty" validate:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

type PostAPI interface {
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

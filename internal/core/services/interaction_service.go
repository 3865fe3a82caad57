package services

import (
	"context"
	"fmt"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// InteractionService runs likes, follows and shares through the
// optimistic protocol.
type InteractionService struct {
	api        ports.InteractionAPI
	controller *Controller
}

func NewInteractionService(api ports.InteractionAPI, controller *Controller) *InteractionService {
	return &InteractionService{api: api, controller: controller}
}

// ToggleLike flips the viewer's like on a post. The remote's is_liked and
// likes_count replace the guess on success.
func (s *InteractionService) ToggleLike(ctx context.Context, post *Cell[domain.Post]) (domain.LikeState, error) {
	return Apply(ctx, s.controller, PostLikes(post), Mutation[domain.LikeState, domain.LikeState]{
		Key:     domain.TargetKey{Entity: domain.EntityPost, ID: post.ID(), Kind: domain.KindLike},
		Propose: domain.LikeState.Toggle,
		Call: func(ctx context.Context) (domain.LikeState, error) {
			return s.api.ToggleLike(ctx, post.ID())
		},
		Reconcile: func(_ domain.LikeState, resp domain.LikeState) domain.LikeState {
			return resp
		},
	})
}

// ToggleFollow flips the viewer's follow on a user. The final flag always
// comes from the remote, which may know the viewer already followed.
func (s *InteractionService) ToggleFollow(ctx context.Context, user *Cell[domain.User]) (domain.FollowState, error) {
	return Apply(ctx, s.controller, UserFollow(user), Mutation[domain.FollowState, domain.FollowState]{
		Key:     domain.TargetKey{Entity: domain.EntityUser, ID: user.ID(), Kind: domain.KindFollow},
		Propose: domain.FollowState.Toggle,
		Call: func(ctx context.Context) (domain.FollowState, error) {
			return s.api.ToggleFollow(ctx, user.ID())
		},
		Reconcile: func(_ domain.FollowState, resp domain.FollowState) domain.FollowState {
			return resp
		},
	})
}

// Share reshares a post. The remote answers with no body, so the local
// share count is bumped by one and kept on success.
func (s *InteractionService) Share(ctx context.Context, post *Cell[domain.Post], input ports.ShareInput) (domain.ShareState, error) {
	if err := validateInput(input); err != nil {
		return domain.ShareState{}, fmt.Errorf("share: %w", err)
	}

	return Apply(ctx, s.controller, PostShares(post), Mutation[domain.ShareState, struct{}]{
		Key: domain.TargetKey{Entity: domain.EntityPost, ID: post.ID(), Kind: domain.KindShare},
		Propose: func(cur domain.ShareState) domain.ShareState {
			return domain.ShareState{Count: cur.Count + 1}
		},
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.api.Share(ctx, post.ID(), input)
		},
	})
}

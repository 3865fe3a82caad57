package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type CommentAPI interface {
	ListComments(ctx context.Context, postID string, page, pageSize int) (domain.CommentPage, error)
	AddComment(ctx context.Context, postID string, input AddCommentInput) error
	ToggleCommentLike(ctx context.Context, commentID string) (domain.LikeState, error)
	EditComment(ctx context.Context, commentID, text string) (domain.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type AddCommentInput struct {
	Text     string `json:"text" validate:"required,max=5000"`
	ParentID string `json:"parent_id,omitempty"`
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// CommentTree is the comment forest under one post: top-level comments,
// each with at most one level of replies.
type CommentTree struct {
	mu         sync.RWMutex
	postID     string
	comments   []domain.Comment
	count      int
	hasMore    bool
	page       int
	pageSize   int
	generation uint64
	detached   bool

	api        ports.CommentAPI
	controller *Controller
	logger     *zap.Logger
}

func NewCommentTree(postID string, api ports.CommentAPI, controller *Controller, logger *zap.Logger) *CommentTree {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentTree{
		postID:     postID,
		api:        api,
		controller: controller,
		logger:     logger.With(zap.String("post", postID)),
	}
}

// FetchPage loads one page of top-level comments. Page 1 replaces the
// list, later pages append. On failure the current list stays visible.
func (t *CommentTree) FetchPage(ctx context.Context, page, pageSize int) error {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return &domain.ValidationError{Field: "page_size", Reason: "must be positive"}
	}

	t.mu.Lock()
	if page == 1 {
		t.generation++
	}
	gen := t.generation
	t.mu.Unlock()

	result, err := t.api.ListComments(ctx, t.postID, page, pageSize)
	if err != nil {
		return fmt.Errorf("list comments of post %s page %d: %w", t.postID, page, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return domain.ErrStaleTarget
	}
	if gen != t.generation {
		t.logger.Debug("dropping outdated comment page", zap.Int("page", page))
		return domain.ErrStaleTarget
	}

	fresh := flatten(result.Results)
	if page == 1 {
		t.comments = fresh
	} else {
		t.comments = appendNew(t.comments, fresh)
	}
	t.count = result.Count
	t.hasMore = result.HasMore()
	t.page = page
	t.pageSize = pageSize
	return nil
}

// LoadMore fetches the page after the last one loaded, with the same size.
func (t *CommentTree) LoadMore(ctx context.Context) error {
	t.mu.RLock()
	page, size, more := t.page, t.pageSize, t.hasMore
	t.mu.RUnlock()
	if page == 0 {
		return domain.ErrCommentNotFound
	}
	if !more {
		return nil
	}
	return t.FetchPage(ctx, page+1, size)
}

// AddComment posts text, as a reply when parentID is set, then re-fetches
// page 1 instead of splicing the node in locally: ordering is the
// remote's call.
func (t *CommentTree) AddComment(ctx context.Context, text, parentID string, pageSize int) error {
	input := ports.AddCommentInput{Text: strings.TrimSpace(text), ParentID: parentID}
	if input.Text == "" {
		return domain.ErrEmptyCommentText
	}
	if err := validateInput(input); err != nil {
		return err
	}
	if parentID != "" {
		t.mu.RLock()
		_, depth := locate(t.comments, parentID)
		t.mu.RUnlock()
		switch depth {
		case -1:
			return fmt.Errorf("reply to %s: %w", parentID, domain.ErrCommentNotFound)
		case 1:
			return domain.ErrReplyTooDeep
		}
	}
	if pageSize < 1 {
		t.mu.RLock()
		pageSize = t.pageSize
		t.mu.RUnlock()
	}

	key := domain.TargetKey{Entity: domain.EntityPost, ID: t.postID, Kind: domain.KindComment}
	if !t.controller.TryAcquire(key) {
		return domain.ErrMutationInFlight
	}
	defer t.controller.Release(key)

	t.controller.Report(ctx, key, domain.OutcomePending, nil)
	if err := t.api.AddComment(ctx, t.postID, input); err != nil {
		err = fmt.Errorf("add comment to post %s: %w", t.postID, err)
		t.controller.Report(ctx, key, domain.OutcomeFailed, err)
		return err
	}

	err := t.FetchPage(ctx, 1, max(pageSize, 1))
	if err != nil {
		// the comment exists remotely; only the refresh failed
		t.controller.Report(ctx, key, domain.OutcomeFailed, err)
		return err
	}
	t.controller.Report(ctx, key, domain.OutcomeSucceeded, nil)
	return nil
}

// ToggleLike likes or unlikes the comment or reply with commentID.
func (t *CommentTree) ToggleLike(ctx context.Context, commentID string) (domain.LikeState, error) {
	target := &commentLikes{tree: t, id: commentID}
	if _, ok := target.Load(); !ok {
		return domain.LikeState{}, domain.ErrCommentNotFound
	}
	return Apply(ctx, t.controller, target, Mutation[domain.LikeState, domain.LikeState]{
		Key:     domain.TargetKey{Entity: domain.EntityComment, ID: commentID, Kind: domain.KindLike},
		Propose: domain.LikeState.Toggle,
		Call: func(ctx context.Context) (domain.LikeState, error) {
			return t.api.ToggleCommentLike(ctx, commentID)
		},
		Reconcile: func(_ domain.LikeState, resp domain.LikeState) domain.LikeState {
			return resp
		},
	})
}

// DeleteComment removes a comment, and with a top-level comment its whole
// reply subtree. It is irreversible, so the caller must pass confirmed.
func (t *CommentTree) DeleteComment(ctx context.Context, commentID string, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	t.mu.RLock()
	node, _ := locate(t.comments, commentID)
	t.mu.RUnlock()
	if node == nil {
		return domain.ErrCommentNotFound
	}

	if err := t.api.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return domain.ErrStaleTarget
	}
	var removed int
	t.comments, removed = prune(t.comments, commentID)
	t.count = max(t.count-removed, 0)
	return nil
}

// EditComment replaces only the text of the matching node.
func (t *CommentTree) EditComment(ctx context.Context, commentID, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, domain.ErrEmptyCommentText
	}
	t.mu.RLock()
	node, _ := locate(t.comments, commentID)
	t.mu.RUnlock()
	if node == nil {
		return domain.Comment{}, domain.ErrCommentNotFound
	}

	updated, err := t.api.EditComment(ctx, commentID, text)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("edit comment %s: %w", commentID, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detached {
		return domain.Comment{}, domain.ErrStaleTarget
	}
	node, _ = locate(t.comments, commentID)
	if node == nil {
		return domain.Comment{}, domain.ErrStaleTarget
	}
	if updated.Text == "" {
		updated.Text = text
	}
	node.Text = updated.Text
	return node.Clone(), nil
}

func (t *CommentTree) Comments() []domain.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Comment, len(t.comments))
	for i, c := range t.comments {
		out[i] = c.Clone()
	}
	return out
}

func (t *CommentTree) Find(commentID string) (domain.Comment, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	node, _ := locate(t.comments, commentID)
	if node == nil {
		return domain.Comment{}, false
	}
	return node.Clone(), true
}

func (t *CommentTree) HasMore() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hasMore
}

// Count is the remote's total of top-level comments.
func (t *CommentTree) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

func (t *CommentTree) Detach() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()
}

func (t *CommentTree) Active() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.detached
}

// commentLikes exposes one node's like state to Apply.
type commentLikes struct {
	tree *CommentTree
	id   string
}

func (c *commentLikes) Entity() domain.EntityType { return domain.EntityComment }
func (c *commentLikes) ID() string                { return c.id }

func (c *commentLikes) Load() (domain.LikeState, bool) {
	c.tree.mu.RLock()
	defer c.tree.mu.RUnlock()
	node, _ := locate(c.tree.comments, c.id)
	if node == nil || c.tree.detached {
		return domain.LikeState{}, false
	}
	return node.LikeState(), true
}

func (c *commentLikes) Store(s domain.LikeState) bool {
	c.tree.mu.Lock()
	defer c.tree.mu.Unlock()
	node, _ := locate(c.tree.comments, c.id)
	if node == nil || c.tree.detached {
		return false
	}
	node.SetLikeState(s)
	return true
}

func (c *commentLikes) Active() bool {
	_, ok := c.Load()
	return ok
}

type frame struct {
	list  []domain.Comment
	depth int
}

// locate walks the forest with an explicit stack and returns the node
// with id and its depth (0 top-level, 1 reply), or nil and -1.
func locate(comments []domain.Comment, id string) (*domain.Comment, int) {
	stack := []frame{{list: comments}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range top.list {
			node := &top.list[i]
			if node.ID == id {
				return node, top.depth
			}
			if len(node.Replies) > 0 {
				stack = append(stack, frame{list: node.Replies, depth: top.depth + 1})
			}
		}
	}
	return nil, -1
}

// prune drops the node with id and everything under it, returning how
// many top-level comments went away.
func prune(comments []domain.Comment, id string) ([]domain.Comment, int) {
	out := comments[:0]
	removed := 0
	for _, c := range comments {
		if c.ID == id {
			removed++
			continue
		}
		if len(c.Replies) > 0 {
			c.Replies, _ = prune(c.Replies, id)
		}
		out = append(out, c)
	}
	return out, removed
}

// flatten enforces one level of nesting: replies of replies are lifted
// onto their top-level ancestor in order.
func flatten(comments []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		c = c.Clone()
		var replies []domain.Comment
		stack := append([]domain.Comment(nil), c.Replies...)
		for len(stack) > 0 {
			r := stack[0]
			stack = stack[1:]
			nested := r.Replies
			r.Replies = nil
			r.ParentID = c.ID
			replies = append(replies, r)
			stack = append(append([]domain.Comment(nil), nested...), stack...)
		}
		c.Replies = replies
		out = append(out, c)
	}
	return out
}

// appendNew adds a later page, skipping comments already present because
// new comments shifted the remote's pages.
func appendNew(current, page []domain.Comment) []domain.Comment {
	seen := make(map[string]struct{}, len(current))
	for _, c := range current {
		seen[c.ID] = struct{}{}
	}
	for _, c := range page {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		current = append(current, c)
	}
	return current
}

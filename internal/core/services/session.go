package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

type SessionAPI interface {
	ports.InteractionAPI
	ports.PostAPI
	ports.PollAPI
	ports.CommentAPI
}

// Session is the set of entities a viewer currently observes. Releasing
// an entity detaches its cell and engines so late responses are dropped.
type Session struct {
	mu    sync.Mutex
	posts map[string]*Cell[domain.Post]
	users map[string]*Cell[domain.User]
	polls map[string]*PollEngine
	trees map[string]*CommentTree

	api          SessionAPI
	repo         ports.SnapshotRepository
	controller   *Controller
	interactions *InteractionService
	clock        ports.Clock
	logger       *zap.Logger
}

func NewSession(api SessionAPI, repo ports.SnapshotRepository, controller *Controller, clock ports.Clock, logger *zap.Logger) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		posts:        make(map[string]*Cell[domain.Post]),
		users:        make(map[string]*Cell[domain.User]),
		polls:        make(map[string]*PollEngine),
		trees:        make(map[string]*CommentTree),
		api:          api,
		repo:         repo,
		controller:   controller,
		interactions: NewInteractionService(api, controller),
		clock:        clock,
		logger:       logger,
	}
}

// Post returns the observed cell for id, hydrating it on first use. When
// the remote is unreachable the last stored snapshot is served instead.
func (s *Session) Post(ctx context.Context, id string) (*Cell[domain.Post], error) {
	s.mu.Lock()
	cell, ok := s.posts[id]
	s.mu.Unlock()
	if ok {
		return cell, nil
	}

	post, err := s.fetchPost(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cell, ok := s.posts[id]; ok {
		return cell, nil
	}
	cell = NewPostCell(post)
	s.posts[id] = cell
	return cell, nil
}

func (s *Session) fetchPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.api.GetPost(ctx, id)
	if err == nil {
		if verr := post.Validate(); verr != nil {
			return nil, fmt.Errorf("hydrate post %s: %w", id, verr)
		}
		s.persist(ctx, post)
		return post, nil
	}
	if s.repo == nil || errors.Is(err, domain.ErrPostNotFound) {
		return nil, fmt.Errorf("hydrate post %s: %w", id, err)
	}

	stored, rerr := s.repo.GetPost(ctx, id)
	if rerr != nil || stored == nil {
		return nil, fmt.Errorf("hydrate post %s: %w", id, err)
	}
	if stored.Deleted {
		return nil, fmt.Errorf("hydrate post %s: %w", id, domain.ErrPostNotFound)
	}
	s.logger.Warn("serving stored snapshot", zap.String("post", id), zap.Error(err))
	return stored, nil
}

// Refresh replaces the post with a fresh server copy and feeds any poll
// payload to its engine. A copy of another kind is rejected and the current
// post is kept.
func (s *Session) Refresh(ctx context.Context, id string) (domain.Post, error) {
	cell, err := s.Post(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	post, err := s.api.GetPost(ctx, id)
	if err != nil {
		return cell.Get(), fmt.Errorf("refresh post %s: %w", id, err)
	}
	if err := post.Validate(); err != nil {
		return cell.Get(), fmt.Errorf("refresh post %s: %w", id, err)
	}
	if current := cell.Get(); current.Kind != post.Kind {
		s.logger.Warn("refreshed post changed kind",
			zap.String("post", id), zap.String("was", string(current.Kind)), zap.String("got", string(post.Kind)))
		return current, fmt.Errorf("refresh post %s: %w", id, domain.ErrKindChanged)
	}
	if !cell.Replace(*post) {
		return domain.Post{}, domain.ErrStaleTarget
	}
	s.mu.Lock()
	engine := s.polls[id]
	s.mu.Unlock()
	if engine != nil && post.Poll != nil {
		engine.Hydrate(*post.Poll)
	}
	s.persist(ctx, post)
	return cell.Get(), nil
}

func (s *Session) User(ctx context.Context, id string) (*Cell[domain.User], error) {
	s.mu.Lock()
	cell, ok := s.users[id]
	s.mu.Unlock()
	if ok {
		return cell, nil
	}

	user, err := s.api.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("hydrate user %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cell, ok := s.users[id]; ok {
		return cell, nil
	}
	cell = NewUserCell(user)
	s.users[id] = cell
	return cell, nil
}

func (s *Session) ToggleLike(ctx context.Context, postID string) (domain.Post, error) {
	cell, err := s.Post(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	_, err = s.interactions.ToggleLike(ctx, cell)
	post := cell.Get()
	if err == nil {
		s.persist(ctx, &post)
	}
	return post, err
}

func (s *Session) Share(ctx context.Context, postID string, input ports.ShareInput) (domain.Post, error) {
	cell, err := s.Post(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	_, err = s.interactions.Share(ctx, cell, input)
	post := cell.Get()
	if err == nil {
		s.persist(ctx, &post)
	}
	return post, err
}

func (s *Session) ToggleFollow(ctx context.Context, userID string) (domain.User, error) {
	cell, err := s.User(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	_, err = s.interactions.ToggleFollow(ctx, cell)
	return cell.Get(), err
}

// Poll returns the running engine of a poll post.
func (s *Session) Poll(ctx context.Context, postID string) (*PollEngine, error) {
	s.mu.Lock()
	engine, ok := s.polls[postID]
	s.mu.Unlock()
	if ok {
		return engine, nil
	}

	cell, err := s.Post(ctx, postID)
	if err != nil {
		return nil, err
	}
	post := cell.Get()
	if post.Kind != domain.ContentPoll || post.Poll == nil {
		return nil, domain.ErrPollNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if engine, ok := s.polls[postID]; ok {
		return engine, nil
	}
	engine = NewPollEngine(postID, *post.Poll, s.api, s.controller, s.clock, s.logger)
	engine.Start()
	s.polls[postID] = engine
	return engine, nil
}

// Vote submits the selection and mirrors the new poll into the post.
func (s *Session) Vote(ctx context.Context, postID string, optionIDs ...int) (PollView, error) {
	engine, err := s.Poll(ctx, postID)
	if err != nil {
		return PollView{}, err
	}
	view, err := engine.Vote(ctx, optionIDs...)
	if err == nil {
		s.syncPoll(ctx, postID, view.Poll)
	}
	return view, err
}

func (s *Session) Unvote(ctx context.Context, postID string) (PollView, error) {
	engine, err := s.Poll(ctx, postID)
	if err != nil {
		return PollView{}, err
	}
	view, err := engine.Unvote(ctx)
	if err == nil {
		s.syncPoll(ctx, postID, view.Poll)
	}
	return view, err
}

func (s *Session) syncPoll(ctx context.Context, postID string, poll domain.PollContent) {
	s.mu.Lock()
	cell := s.posts[postID]
	s.mu.Unlock()
	if cell == nil {
		return
	}
	cell.Update(func(p *domain.Post) {
		if p.Poll != nil {
			*p.Poll = poll.Clone()
		}
	})
	post := cell.Get()
	s.persist(ctx, &post)
}

// Comments returns the comment tree of an observed post, creating it
// empty. The post is hydrated first so unknown ids never get a tree.
func (s *Session) Comments(ctx context.Context, postID string) (*CommentTree, error) {
	if _, err := s.Post(ctx, postID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		return nil, domain.ErrStaleTarget
	}
	tree, ok := s.trees[postID]
	if !ok {
		tree = NewCommentTree(postID, s.api, s.controller, s.logger)
		s.trees[postID] = tree
	}
	return tree, nil
}

// AddComment posts a comment and, once the tree is refreshed, re-fetches
// the post for its new comment count.
func (s *Session) AddComment(ctx context.Context, postID, text, parentID string, pageSize int) error {
	tree, err := s.Comments(ctx, postID)
	if err != nil {
		return err
	}
	if err := tree.AddComment(ctx, text, parentID, pageSize); err != nil {
		return err
	}
	s.mu.Lock()
	_, observed := s.posts[postID]
	s.mu.Unlock()
	if observed {
		if _, err := s.Refresh(ctx, postID); err != nil {
			s.logger.Warn("post refresh after comment failed", zap.String("post", postID), zap.Error(err))
		}
	}
	return nil
}

// Release stops observing a post and everything hanging off it.
func (s *Session) Release(postID string) {
	s.mu.Lock()
	cell := s.posts[postID]
	engine := s.polls[postID]
	tree := s.trees[postID]
	delete(s.posts, postID)
	delete(s.polls, postID)
	delete(s.trees, postID)
	s.mu.Unlock()

	if cell != nil {
		cell.Detach()
	}
	if engine != nil {
		engine.Stop()
	}
	if tree != nil {
		tree.Detach()
	}
}

func (s *Session) ReleaseUser(userID string) {
	s.mu.Lock()
	cell := s.users[userID]
	delete(s.users, userID)
	s.mu.Unlock()
	if cell != nil {
		cell.Detach()
	}
}

// Close releases everything.
func (s *Session) Close() {
	s.mu.Lock()
	var posts, users []string
	for id := range s.posts {
		posts = append(posts, id)
	}
	for id := range s.polls {
		posts = append(posts, id)
	}
	for id := range s.trees {
		posts = append(posts, id)
	}
	for id := range s.users {
		users = append(users, id)
	}
	s.mu.Unlock()

	for _, id := range posts {
		s.Release(id)
	}
	for _, id := range users {
		s.ReleaseUser(id)
	}
}

func (s *Session) persist(ctx context.Context, post *domain.Post) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SavePost(ctx, post); err != nil {
		s.logger.Warn("failed to store post snapshot", zap.String("post", post.ID), zap.Error(err))
	}
}

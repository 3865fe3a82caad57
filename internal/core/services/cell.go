package services

import (
	"sync"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

// Cell holds the live copy of one entity observed by a view. Reads return
// clones; a detached cell refuses writes so late responses cannot land on
// an entity nobody is looking at.
type Cell[T any] struct {
	mu       sync.RWMutex
	entity   domain.EntityType
	id       string
	value    T
	clone    func(T) T
	detached bool
	version  uint64
}

func NewCell[T any](entity domain.EntityType, id string, value T, clone func(T) T) *Cell[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Cell[T]{entity: entity, id: id, value: clone(value), clone: clone}
}

func NewPostCell(post *domain.Post) *Cell[domain.Post] {
	return NewCell(domain.EntityPost, post.ID, *post, func(p domain.Post) domain.Post { return *p.Clone() })
}

func NewUserCell(user *domain.User) *Cell[domain.User] {
	return NewCell(domain.EntityUser, user.ID, *user, nil)
}

func (c *Cell[T]) ID() string { return c.id }

func (c *Cell[T]) Entity() domain.EntityType { return c.entity }

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clone(c.value)
}

func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Update applies fn under the write lock. It reports false when detached.
func (c *Cell[T]) Update(fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		return false
	}
	fn(&c.value)
	c.version++
	return true
}

// Replace swaps in a fresher server copy wholesale.
func (c *Cell[T]) Replace(v T) bool {
	return c.Update(func(cur *T) { *cur = c.clone(v) })
}

func (c *Cell[T]) Detach() {
	c.mu.Lock()
	c.detached = true
	c.mu.Unlock()
}

func (c *Cell[T]) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.detached
}

// Target is the slice of an entity one mutation kind reads and writes.
type Target[S any] interface {
	Entity() domain.EntityType
	ID() string
	Load() (S, bool)
	Store(S) bool
	Active() bool
}

// Field projects a part S of a cell's value T.
type Field[T, S any] struct {
	cell *Cell[T]
	get  func(*T) S
	set  func(*T, S)
}

func NewField[T, S any](cell *Cell[T], get func(*T) S, set func(*T, S)) *Field[T, S] {
	return &Field[T, S]{cell: cell, get: get, set: set}
}

func (f *Field[T, S]) Entity() domain.EntityType { return f.cell.entity }
func (f *Field[T, S]) ID() string                { return f.cell.id }
func (f *Field[T, S]) Active() bool              { return f.cell.Active() }

func (f *Field[T, S]) Load() (S, bool) {
	f.cell.mu.RLock()
	defer f.cell.mu.RUnlock()
	return f.get(&f.cell.value), !f.cell.detached
}

func (f *Field[T, S]) Store(s S) bool {
	return f.cell.Update(func(v *T) { f.set(v, s) })
}

func PostLikes(cell *Cell[domain.Post]) Target[domain.LikeState] {
	return NewField(cell, (*domain.Post).LikeState, (*domain.Post).SetLikeState)
}

func PostShares(cell *Cell[domain.Post]) Target[domain.ShareState] {
	return NewField(cell, (*domain.Post).ShareState, (*domain.Post).SetShareState)
}

func UserFollow(cell *Cell[domain.User]) Target[domain.FollowState] {
	return NewField(cell, (*domain.User).FollowState, (*domain.User).SetFollowState)
}

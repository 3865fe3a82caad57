package domain

import "time"

type MutationKind string

const (
	KindLike    MutationKind = "like"
	KindVote    MutationKind = "vote"
	KindFollow  MutationKind = "follow"
	KindShare   MutationKind = "share"
	KindComment MutationKind = "comment"
)

type EntityType string

const (
	EntityPost    EntityType = "post"
	EntityComment EntityType = "comment"
	EntityUser    EntityType = "user"
)

// TargetKey identifies one kind of mutation on one entity. At most one
// mutation per key may be in flight.
type TargetKey struct {
	Entity EntityType
	ID     string
	Kind   MutationKind
}

// Intent is the ephemeral record of a speculative change. It is never
// persisted.
type Intent[S any] struct {
	Key      TargetKey
	Previous S
	Proposed S
}

type LikeState struct {
	Liked bool `json:"is_liked"`
	Count int  `json:"likes_count"`
}

// Toggle flips the flag and moves the adjacent counter with it.
func (s LikeState) Toggle() LikeState {
	if s.Liked {
		return LikeState{Liked: false, Count: max(s.Count-1, 0)}
	}
	return LikeState{Liked: true, Count: s.Count + 1}
}

type FollowState struct {
	Following bool `json:"is_following"`
}

func (s FollowState) Toggle() FollowState {
	return FollowState{Following: !s.Following}
}

type ShareState struct {
	Count int `json:"shares_count"`
}

type OutcomeStatus string

const (
	OutcomePending   OutcomeStatus = "pending"
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeDiscarded OutcomeStatus = "discarded"
)

// Outcome is the pending/error signal published for every operation.
type Outcome struct {
	Key       TargetKey     `json:"key"`
	Status    OutcomeStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
	Transient bool          `json:"transient,omitempty"`
	At        time.Time     `json:"at"`
}

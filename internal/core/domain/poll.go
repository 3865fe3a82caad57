package domain

import (
	"math"
	"time"
)

type PollType string

const (
	PollSingle   PollType = "single"
	PollMultiple PollType = "multiple"
)

// ShareEpsilon is the rounding slack allowed when vote shares are summed.
const ShareEpsilon = 0.01

type PollContent struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Type        PollType     `json:"poll_type"`
	Options     []PollOption `json:"options"`
	TotalVotes  int          `json:"total_votes"`
	ExpiresAt   time.Time    `json:"expires_at"`
	HasExpired  bool         `json:"has_expired"`
}

type PollOption struct {
	ID             int     `json:"id"`
	Text           string  `json:"text"`
	VoteCount      int     `json:"vote_count"`
	VoteShare      float64 `json:"vote_share"`
	ViewerHasVoted bool    `json:"viewer_has_voted"`
}

func (p PollContent) Clone() PollContent {
	p.Options = append([]PollOption(nil), p.Options...)
	return p
}

// Expired combines the server flag with the local clock.
func (p PollContent) Expired(now time.Time) bool {
	if p.HasExpired {
		return true
	}
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

func (p PollContent) Option(id int) (PollOption, bool) {
	for _, opt := range p.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return PollOption{}, false
}

func (p PollContent) HasVoted() bool {
	for _, opt := range p.Options {
		if opt.ViewerHasVoted {
			return true
		}
	}
	return false
}

func (p PollContent) VotedOptionIDs() []int {
	var ids []int
	for _, opt := range p.Options {
		if opt.ViewerHasVoted {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// Normalize rebuilds the derived fields from the per-option counts:
// total_votes becomes the sum of counts, shares are recomputed, negative
// counts are clamped, and a single choice poll keeps only its first voted
// flag. It reports whether anything had to change.
func (p *PollContent) Normalize() bool {
	changed := false
	total := 0
	voted := false
	for i := range p.Options {
		opt := &p.Options[i]
		if opt.VoteCount < 0 {
			opt.VoteCount = 0
			changed = true
		}
		total += opt.VoteCount
		if p.Type == PollSingle && opt.ViewerHasVoted {
			if voted {
				opt.ViewerHasVoted = false
				changed = true
			}
			voted = true
		}
	}
	if total != p.TotalVotes {
		p.TotalVotes = total
		changed = true
	}
	for i := range p.Options {
		share := 0.0
		if total > 0 {
			share = float64(p.Options[i].VoteCount) / float64(total) * 100
		}
		if math.Abs(share-p.Options[i].VoteShare) > ShareEpsilon {
			changed = true
		}
		p.Options[i].VoteShare = share
	}
	return changed
}

// Consistent checks the poll invariants without modifying it.
func (p PollContent) Consistent() bool {
	sumCount := 0
	sumShare := 0.0
	voted := 0
	for _, opt := range p.Options {
		sumCount += opt.VoteCount
		sumShare += opt.VoteShare
		if opt.ViewerHasVoted {
			voted++
		}
	}
	if sumCount != p.TotalVotes {
		return false
	}
	if p.Type == PollSingle && voted > 1 {
		return false
	}
	if p.TotalVotes > 0 && math.Abs(sumShare-100) > ShareEpsilon {
		return false
	}
	return true
}

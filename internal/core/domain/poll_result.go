package domain

// PollResult is one row of the read-only view shown once a poll has closed.
type PollResult struct {
	OptionID       int     `json:"option_id"`
	Text           string  `json:"text"`
	VoteCount      int     `json:"vote_count"`
	VoteShare      float64 `json:"vote_share"`
	Leading        bool    `json:"leading"`
	ViewerHasVoted bool    `json:"viewer_has_voted"`
}

func ResultsOf(p PollContent) []PollResult {
	top := 0
	for _, opt := range p.Options {
		top = max(top, opt.VoteCount)
	}

	results := make([]PollResult, 0, len(p.Options))
	for _, opt := range p.Options {
		results = append(results, PollResult{
			OptionID:       opt.ID,
			Text:           opt.Text,
			VoteCount:      opt.VoteCount,
			VoteShare:      opt.VoteShare,
			Leading:        top > 0 && opt.VoteCount == top,
			ViewerHasVoted: opt.ViewerHasVoted,
		})
	}
	return results
}

package domain

import "time"

type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	ParentID       string    `json:"parent_id,omitempty"`
	Author         Author    `json:"author"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	LikeCount      int       `json:"like_count"`
	ViewerHasLiked bool      `json:"viewer_has_liked"`
	MediaURL       string    `json:"media_url,omitempty"`
	IsMine         bool      `json:"is_mine"`
	IsPostAuthor   bool      `json:"is_post_author"`
	Replies        []Comment `json:"replies,omitempty"`
}

// CommentPage is one page of top-level comments as returned by the remote.
type CommentPage struct {
	Results []Comment
	Count   int
	Next    string
}

func (p CommentPage) HasMore() bool {
	return p.Next != ""
}

func (c Comment) Clone() Comment {
	if len(c.Replies) == 0 {
		c.Replies = nil
		return c
	}
	replies := make([]Comment, len(c.Replies))
	for i, r := range c.Replies {
		replies[i] = r.Clone()
	}
	c.Replies = replies
	return c
}

func (c *Comment) LikeState() LikeState {
	return LikeState{Liked: c.ViewerHasLiked, Count: c.LikeCount}
}

func (c *Comment) SetLikeState(s LikeState) {
	c.ViewerHasLiked = s.Liked
	c.LikeCount = max(s.Count, 0)
}

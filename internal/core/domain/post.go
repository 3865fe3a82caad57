package domain

import (
	"errors"
	"fmt"
	"time"
)

type ContentKind string

const (
	ContentDefault ContentKind = "default"
	ContentPoll    ContentKind = "poll"
	ContentShared  ContentKind = "shared"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Media struct {
	URL  string    `json:"url"`
	Type MediaType `json:"type"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type DefaultContent struct {
	Text  string  `json:"text"`
	Media []Media `json:"media,omitempty"`
}

type SharedContent struct {
	Description string `json:"description,omitempty"`
	Original    *Post  `json:"original"`
}

// Post is a feed entry. Kind selects which one of Default, Poll or Shared
// is set; the tag never changes after the post is built.
type Post struct {
	ID             string    `json:"id"`
	Author         Author    `json:"author"`
	CreatedAt      time.Time `json:"created_at"`
	LikeCount      int       `json:"like_count"`
	CommentCount   int       `json:"comment_count"`
	ShareCount     int       `json:"share_count"`
	ViewerHasLiked bool      `json:"viewer_has_liked"`
	Deleted        bool      `json:"deleted,omitempty"`

	Kind    ContentKind     `json:"kind"`
	Default *DefaultContent `json:"default,omitempty"`
	Poll    *PollContent    `json:"poll,omitempty"`
	Shared  *SharedContent  `json:"shared,omitempty"`
}

func NewDefaultPost(id string, author Author, content DefaultContent) *Post {
	return &Post{ID: id, Author: author, Kind: ContentDefault, Default: &content}
}

func NewPollPost(id string, author Author, poll PollContent) *Post {
	return &Post{ID: id, Author: author, Kind: ContentPoll, Poll: &poll}
}

func NewSharedPost(id string, author Author, description string, original *Post) *Post {
	return &Post{ID: id, Author: author, Kind: ContentShared, Shared: &SharedContent{Description: description, Original: original}}
}

// Validate checks that exactly the payload matching Kind is present and
// that no counter went negative.
func (p *Post) Validate() error {
	if p.ID == "" {
		return errors.New("post id is required")
	}
	if p.LikeCount < 0 || p.CommentCount < 0 || p.ShareCount < 0 {
		return fmt.Errorf("post %s: negative counter", p.ID)
	}

	set := 0
	for _, present := range []bool{p.Default != nil, p.Poll != nil, p.Shared != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("post %s: expected exactly one payload, got %d", p.ID, set)
	}

	switch p.Kind {
	case ContentDefault:
		if p.Default == nil {
			return fmt.Errorf("post %s: default payload missing", p.ID)
		}
	case ContentPoll:
		if p.Poll == nil {
			return fmt.Errorf("post %s: poll payload missing", p.ID)
		}
	case ContentShared:
		if p.Shared == nil || p.Shared.Original == nil {
			return fmt.Errorf("post %s: shared payload missing", p.ID)
		}
	default:
		return fmt.Errorf("post %s: unknown kind %q", p.ID, p.Kind)
	}
	return nil
}

// Clone returns a deep copy so snapshots handed to views never alias the
// engine's state.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	if p.Default != nil {
		d := *p.Default
		d.Media = append([]Media(nil), p.Default.Media...)
		c.Default = &d
	}
	if p.Poll != nil {
		poll := p.Poll.Clone()
		c.Poll = &poll
	}
	if p.Shared != nil {
		s := *p.Shared
		s.Original = p.Shared.Original.Clone()
		c.Shared = &s
	}
	return &c
}

func (p *Post) LikeState() LikeState {
	return LikeState{Liked: p.ViewerHasLiked, Count: p.LikeCount}
}

func (p *Post) SetLikeState(s LikeState) {
	p.ViewerHasLiked = s.Liked
	p.LikeCount = max(s.Count, 0)
}

func (p *Post) ShareState() ShareState {
	return ShareState{Count: p.ShareCount}
}

func (p *Post) SetShareState(s ShareState) {
	p.ShareCount = max(s.Count, 0)
}

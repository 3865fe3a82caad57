package rest

import (
	"time"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type likeResponse struct {
	IsLiked    bool `json:"is_liked"`
	LikesCount int  `json:"likes_count"`
}

func (r likeResponse) state() domain.LikeState {
	return domain.LikeState{Liked: r.IsLiked, Count: r.LikesCount}
}

type followResponse struct {
	IsFollowing bool `json:"is_following"`
}

type voteRequest struct {
	OptionIDs []int `json:"option_ids"`
}

type voteResponse struct {
	Poll pollDTO `json:"poll"`
}

type authorDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"profile_picture_url"`
}

func (a authorDTO) toDomain() domain.Author {
	return domain.Author{ID: a.ID, Username: a.Username, Name: a.Name, Avatar: a.Avatar}
}

type mediaDTO struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type pollOptionDTO struct {
	ID         int     `json:"id"`
	Text       string  `json:"text"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"vote_percentage"`
	HasVoted   bool    `json:"has_voted"`
}

type pollDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	PollType    string          `json:"poll_type"`
	Options     []pollOptionDTO `json:"options"`
	TotalVotes  int             `json:"total_votes"`
	ExpiresAt   time.Time       `json:"expires_at"`
	HasExpired  bool            `json:"has_expired"`
}

func (p pollDTO) toDomain() domain.PollContent {
	poll := domain.PollContent{
		Title:       p.Title,
		Description: p.Description,
		Type:        domain.PollSingle,
		TotalVotes:  p.TotalVotes,
		ExpiresAt:   p.ExpiresAt,
		HasExpired:  p.HasExpired,
	}
	if p.PollType == string(domain.PollMultiple) {
		poll.Type = domain.PollMultiple
	}
	for _, o := range p.Options {
		poll.Options = append(poll.Options, domain.PollOption{
			ID:             o.ID,
			Text:           o.Text,
			VoteCount:      o.VoteCount,
			VoteShare:      o.Percentage,
			ViewerHasVoted: o.HasVoted,
		})
	}
	return poll
}

type postDTO struct {
	ID            string     `json:"id"`
	Author        authorDTO  `json:"author"`
	CreatedAt     time.Time  `json:"created_at"`
	LikesCount    int        `json:"likes_count"`
	CommentsCount int        `json:"comments_count"`
	SharesCount   int        `json:"shares_count"`
	IsLiked       bool       `json:"is_liked"`
	PostType      string     `json:"post_type"`
	Text          string     `json:"text"`
	Media         []mediaDTO `json:"media"`
	Poll          *pollDTO   `json:"poll"`
	Description   string     `json:"description"`
	SharedPost    *postDTO   `json:"shared_post"`
}

func (p postDTO) toDomain() *domain.Post {
	post := &domain.Post{
		ID:             p.ID,
		Author:         p.Author.toDomain(),
		CreatedAt:      p.CreatedAt,
		LikeCount:      max(p.LikesCount, 0),
		CommentCount:   max(p.CommentsCount, 0),
		ShareCount:     max(p.SharesCount, 0),
		ViewerHasLiked: p.IsLiked,
	}

	switch {
	case p.PostType == string(domain.ContentPoll) && p.Poll != nil:
		poll := p.Poll.toDomain()
		post.Kind, post.Poll = domain.ContentPoll, &poll
	case p.PostType == string(domain.ContentShared) && p.SharedPost != nil:
		post.Kind = domain.ContentShared
		post.Shared = &domain.SharedContent{Description: p.Description, Original: p.SharedPost.toDomain()}
	default:
		content := &domain.DefaultContent{Text: p.Text}
		for _, m := range p.Media {
			content.Media = append(content.Media, domain.Media{URL: m.URL, Type: domain.MediaType(m.Type)})
		}
		post.Kind, post.Default = domain.ContentDefault, content
	}
	return post
}

type commentDTO struct {
	ID           string       `json:"id"`
	User         authorDTO    `json:"user"`
	Text         string       `json:"text"`
	Created      time.Time    `json:"created"`
	LikesCount   int          `json:"likes_count"`
	IsLiked      bool         `json:"is_liked"`
	MediaURL     string       `json:"media_url"`
	IsMine       bool         `json:"is_mine"`
	IsPostAuthor bool         `json:"is_post_author"`
	Parent       string       `json:"parent"`
	Replies      []commentDTO `json:"replies"`
}

func (c commentDTO) toDomain(postID, parentID string) domain.Comment {
	if c.Parent != "" {
		parentID = c.Parent
	}
	comment := domain.Comment{
		ID:             c.ID,
		PostID:         postID,
		ParentID:       parentID,
		Author:         c.User.toDomain(),
		Text:           c.Text,
		CreatedAt:      c.Created,
		LikeCount:      max(c.LikesCount, 0),
		ViewerHasLiked: c.IsLiked,
		MediaURL:       c.MediaURL,
		IsMine:         c.IsMine,
		IsPostAuthor:   c.IsPostAuthor,
	}
	for _, r := range c.Replies {
		comment.Replies = append(comment.Replies, r.toDomain(postID, c.ID))
	}
	return comment
}

type commentListResponse struct {
	Results []commentDTO `json:"results"`
	Count   int          `json:"count"`
	Next    *string      `json:"next"`
}

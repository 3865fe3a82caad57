package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// Client talks to the platform's REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

var _ ports.RemoteAPI = (*Client)(nil)

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (domain.LikeState, error) {
	var resp likeResponse
	err := c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", nil, &resp)
	return resp.state(), err
}

func (c *Client) ToggleFollow(ctx context.Context, userID string) (domain.FollowState, error) {
	var resp followResponse
	err := c.do(ctx, http.MethodPost, "/api/users/"+url.PathEscape(userID)+"/follow", nil, &resp)
	return domain.FollowState{Following: resp.IsFollowing}, err
}

func (c *Client) Share(ctx context.Context, postID string, input ports.ShareInput) error {
	return c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/share", input, nil)
}

func (c *Client) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	var dto postDTO
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID), nil, &dto); err != nil {
		var rerr *domain.RemoteError
		if errors.As(err, &rerr) && rerr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, postID)
		}
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Vote(ctx context.Context, pollPostID string, optionIDs []int) (domain.PollContent, error) {
	var resp voteResponse
	body := voteRequest{OptionIDs: optionIDs}
	if err := c.do(ctx, http.MethodPost, "/api/polls/"+url.PathEscape(pollPostID)+"/vote", body, &resp); err != nil {
		return domain.PollContent{}, err
	}
	return resp.Poll.toDomain(), nil
}

func (c *Client) Unvote(ctx context.Context, pollPostID string) error {
	return c.do(ctx, http.MethodDelete, "/api/polls/"+url.PathEscape(pollPostID)+"/vote", nil, nil)
}

func (c *Client) GetPoll(ctx context.Context, pollPostID string) (domain.PollContent, error) {
	post, err := c.GetPost(ctx, pollPostID)
	if err != nil {
		return domain.PollContent{}, err
	}
	if post.Poll == nil {
		return domain.PollContent{}, domain.ErrPollNotFound
	}
	return *post.Poll, nil
}

func (c *Client) ListComments(ctx context.Context, postID string, page, pageSize int) (domain.CommentPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var resp commentListResponse
	path := "/api/posts/" + url.PathEscape(postID) + "/comments?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.CommentPage{}, err
	}

	result := domain.CommentPage{Count: resp.Count}
	if resp.Next != nil {
		result.Next = *resp.Next
	}
	for _, dto := range resp.Results {
		result.Results = append(result.Results, dto.toDomain(postID, ""))
	}
	return result, nil
}

func (c *Client) AddComment(ctx context.Context, postID string, input ports.AddCommentInput) error {
	return c.do(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", input, nil)
}

func (c *Client) ToggleCommentLike(ctx context.Context, commentID string) (domain.LikeState, error) {
	var resp likeResponse
	err := c.do(ctx, http.MethodPost, "/api/comments/"+url.PathEscape(commentID)+"/like", nil, &resp)
	return resp.state(), err
}

func (c *Client) EditComment(ctx context.Context, commentID, text string) (domain.Comment, error) {
	var dto commentDTO
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPatch, "/api/comments/"+url.PathEscape(commentID), body, &dto); err != nil {
		return domain.Comment{}, err
	}
	return dto.toDomain("", ""), nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(commentID), nil, nil)
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) ListTournaments(ctx context.Context) ([]domain.Tournament, error) {
	var tournaments []domain.Tournament
	if err := c.do(ctx, http.MethodGet, "/api/tournaments", nil, &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request done", zap.String("method", method), zap.String("path", path),
		zap.String("request_id", requestID), zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &domain.RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(msg)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls "detail" or "error" out of a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

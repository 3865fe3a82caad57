package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrPollNotFound         = errors.New("post has no poll")
	ErrPollClosed           = errors.New("poll has expired")
	ErrPollOpen             = errors.New("poll is still open")
	ErrNoOptionSelected     = errors.New("no poll option selected")
	ErrTooManyOptions       = errors.New("single choice poll accepts one option")
	ErrUnknownOption        = errors.New("invalid option for this poll")
	ErrNotVoted             = errors.New("user did not vote on this poll")
	ErrVoteInFlight         = errors.New("a vote is already in progress")
	ErrMutationInFlight     = errors.New("mutation already in progress for this target")
	ErrEmptyCommentText     = errors.New("comment text is required")
	ErrReplyTooDeep         = errors.New("replies to replies are not supported")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrStaleTarget          = errors.New("target is no longer observed")
	ErrTransport            = errors.New("remote unreachable")
	ErrKindChanged          = errors.New("post content kind cannot change")
)

// ValidationError is returned when user input is rejected before any
// network call is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteError carries a non-2xx answer from the remote API.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned %d: %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= 500
}

// IsTransient reports whether err is a connectivity failure or a retryable
// server answer. Nothing retries automatically; the flag only shapes the
// message shown to the user.
func IsTransient(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) {
		return temp.Temporary()
	}
	return false
}

// IsValidation reports whether err was raised by local input checks.
func IsValidation(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	for _, target := range []error{
		ErrEmptyCommentText, ErrNoOptionSelected, ErrTooManyOptions,
		ErrUnknownOption, ErrReplyTooDeep, ErrConfirmationRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

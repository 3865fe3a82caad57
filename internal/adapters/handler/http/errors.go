package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError maps engine errors to status codes. A stale target is not an
// error for the view: the response is dropped with 204.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrStaleTarget):
		w.WriteHeader(http.StatusNoContent)
	case domain.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrPollNotFound),
		errors.Is(err, domain.ErrNotVoted):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrMutationInFlight),
		errors.Is(err, domain.ErrVoteInFlight),
		errors.Is(err, domain.ErrPollOpen):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrPollClosed):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, domain.ErrKindChanged):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		var rerr *domain.RemoteError
		if errors.As(err, &rerr) || errors.Is(err, domain.ErrTransport) {
			if domain.IsTransient(err) {
				w.Header().Set("X-Transient", "true")
			}
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type PollHandler struct {
	session *services.Session
}

func NewPollHandler(session *services.Session) *PollHandler {
	return &PollHandler{
		session: session,
	}
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	engine, err := h.session.Poll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

type selectRequest struct {
	OptionID int `json:"option_id"`
}

func (h *PollHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	engine, err := h.session.Poll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := engine.SelectOption(req.OptionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

type voteRequest struct {
	OptionIDs []int `json:"option_ids"`
}

func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	view, err := h.session.Vote(r.Context(), chi.URLParam(r, "id"), req.OptionIDs...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *PollHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.Unvote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	engine, err := h.session.Poll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := engine.Results()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

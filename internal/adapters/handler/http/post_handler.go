package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type PostHandler struct {
	session *services.Session
}

func NewPostHandler(session *services.Session) *PostHandler {
	return &PostHandler{
		session: session,
	}
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cell, err := h.session.Post(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cell.Get())
}

func (h *PostHandler) RefreshPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.session.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	post, err := h.session.ToggleLike(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type shareRequest struct {
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

func (h *PostHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	input := ports.ShareInput{Description: req.Description, IsPublic: true}
	if req.IsPublic != nil {
		input.IsPublic = *req.IsPublic
	}

	post, err := h.session.Share(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Release tells the engine the view no longer shows the post.
func (h *PostHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.session.Release(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

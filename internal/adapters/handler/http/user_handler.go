package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type UserHandler struct {
	session *services.Session
}

func NewUserHandler(session *services.Session) *UserHandler {
	return &UserHandler{
		session: session,
	}
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	cell, err := h.session.User(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cell.Get())
}

func (h *UserHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	user, err := h.session.ToggleFollow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

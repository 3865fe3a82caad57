package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type SignalHandler struct {
	signals *services.Signals
}

func NewSignalHandler(signals *services.Signals) *SignalHandler {
	return &SignalHandler{
		signals: signals,
	}
}

func keyOf(r *http.Request) domain.TargetKey {
	return domain.TargetKey{
		Entity: domain.EntityType(chi.URLParam(r, "entity")),
		ID:     chi.URLParam(r, "id"),
		Kind:   domain.MutationKind(chi.URLParam(r, "kind")),
	}
}

func (h *SignalHandler) Failures(w http.ResponseWriter, r *http.Request) {
	failures := h.signals.Failures()
	if failures == nil {
		failures = []domain.Outcome{}
	}
	writeJSON(w, http.StatusOK, failures)
}

func (h *SignalHandler) GetSignal(w http.ResponseWriter, r *http.Request) {
	outcome, ok := h.signals.Get(keyOf(r))
	if !ok {
		http.Error(w, "no signal", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *SignalHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.signals.Dismiss(keyOf(r))
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/services"
)

type SearchHandler struct {
	discovery *services.DiscoveryService
}

func NewSearchHandler(discovery *services.DiscoveryService) *SearchHandler {
	return &SearchHandler{
		discovery: discovery,
	}
}

func searchQuery(r *http.Request) (services.SearchQuery, error) {
	q := r.URL.Query()
	query := services.SearchQuery{
		Name:         q.Get("name"),
		LocationText: q.Get("location"),
		RadiusMiles:  50,
	}
	if raw := q.Get("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, &domain.ValidationError{Field: "radius", Reason: "must be a number"}
		}
		query.RadiusMiles = radius
	}
	return query, nil
}

func (h *SearchHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query, err := searchQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := h.discovery.SearchEvents(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *SearchHandler) SearchTournaments(w http.ResponseWriter, r *http.Request) {
	query, err := searchQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tournaments, err := h.discovery.SearchTournaments(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tournaments)
}

type locationRequest struct {
	Location string `json:"location"`
}

// SetLocation is called on every keystroke of the location box; geocoding
// happens after the debounce window.
func (h *SearchHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.discovery.SetLocation(req.Location)
	w.WriteHeader(http.StatusAccepted)
}

func (h *SearchHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil {
		month = time.Month(m)
	}

	loc := time.Local
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			writeError(w, &domain.ValidationError{Field: "tz", Reason: "unknown time zone"})
			return
		}
		loc = l
	}

	grid, err := h.discovery.Calendar(r.Context(), year, month, loc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// HTTPGeocoder asks the platform's geocoding endpoint to place free text.
type HTTPGeocoder struct {
	endpoint string
	token    string
	http     *http.Client
}

var _ ports.Geocoder = (*HTTPGeocoder)(nil)

func NewHTTPGeocoder(endpoint, token string, timeout time.Duration) *HTTPGeocoder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGeocoder{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		http:     &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Success   bool     `json:"success"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, bool, error) {
	q := url.Values{}
	q.Set("address", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("%w: geocode: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, false, &domain.RemoteError{StatusCode: resp.StatusCode}
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if !body.Success || body.Latitude == nil || body.Longitude == nil {
		return domain.Coordinates{}, false, nil
	}
	return domain.Coordinates{Lat: *body.Latitude, Lng: *body.Longitude}, true, nil
}

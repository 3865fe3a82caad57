package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

const DefaultGeocodeDebounce = time.Second

// LocationResolver turns the search box's location text into a center
// point. Geocoding starts only after the text has been still for the
// debounce window; until then, or when geocoding fails, Center is nil and
// the radius filter falls back to text matching.
type LocationResolver struct {
	mu       sync.Mutex
	text     string
	center   *domain.Coordinates
	timer    *time.Timer
	gen      uint64
	closed   bool
	debounce time.Duration
	timeout  time.Duration

	geocoder ports.Geocoder
	cache    ports.GeocodeCache
	logger   *zap.Logger
}

func NewLocationResolver(geocoder ports.Geocoder, cache ports.GeocodeCache, debounce time.Duration, logger *zap.Logger) *LocationResolver {
	if debounce <= 0 {
		debounce = DefaultGeocodeDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocationResolver{
		debounce: debounce,
		timeout:  10 * time.Second,
		geocoder: geocoder,
		cache:    cache,
		logger:   logger,
	}
}

// Update records new location text and restarts the debounce window.
// Resubmitting text that failed to resolve tries again.
func (r *LocationResolver) Update(text string) {
	text = strings.TrimSpace(text)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if text == r.text && (text == "" || r.center != nil || r.timer != nil) {
		return
	}
	r.text = text
	r.center = nil
	r.gen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if text == "" {
		return
	}

	gen := r.gen
	r.timer = time.AfterFunc(r.debounce, func() { r.resolve(gen, text) })
}

func (r *LocationResolver) resolve(gen uint64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	coords, ok := r.lookup(ctx, text)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.gen {
		return
	}
	r.timer = nil
	if ok {
		r.center = &coords
	}
}

func (r *LocationResolver) lookup(ctx context.Context, text string) (domain.Coordinates, bool) {
	key := strings.ToLower(text)
	if r.cache != nil {
		coords, found, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("geocode cache read failed", zap.String("location", text), zap.Error(err))
		} else if found {
			return coords, true
		}
	}

	coords, ok, err := r.geocoder.Geocode(ctx, text)
	if err != nil {
		r.logger.Warn("geocoding failed", zap.String("location", text), zap.Error(err))
		return domain.Coordinates{}, false
	}
	if !ok {
		r.logger.Debug("location not found", zap.String("location", text))
		return domain.Coordinates{}, false
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, coords); err != nil {
			r.logger.Warn("geocode cache write failed", zap.String("location", text), zap.Error(err))
		}
	}
	return coords, true
}

// Current returns the text last given and its resolved center, if any.
func (r *LocationResolver) Current() (string, *domain.Coordinates) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.center == nil {
		return r.text, nil
	}
	c := *r.center
	return r.text, &c
}

func (r *LocationResolver) Center() *domain.Coordinates {
	_, c := r.Current()
	return c
}

// Close stops a pending timer; later results are dropped.
func (r *LocationResolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

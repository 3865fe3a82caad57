package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/ports"
)

// GeocodeCache remembers resolved locations so the same text is not sent
// to the geocoder twice.
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.GeocodeCache = (*GeocodeCache)(nil)

func NewGeocodeCache(client *redis.Client, ttl time.Duration) *GeocodeCache {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &GeocodeCache{client: client, ttl: ttl}
}

func key(location string) string {
	return fmt.Sprintf("geocode:%s", location)
}

func (c *GeocodeCache) Get(ctx context.Context, location string) (domain.Coordinates, bool, error) {
	raw, err := c.client.Get(ctx, key(location)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, err
	}

	var coords domain.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		// corrupt entry, treat as a miss
		return domain.Coordinates{}, false, nil
	}
	return coords, true, nil
}

func (c *GeocodeCache) Set(ctx context.Context, location string, coords domain.Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(location), raw, c.ttl).Err()
}

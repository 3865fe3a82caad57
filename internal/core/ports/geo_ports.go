package ports

import (
	"context"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type Geocoder interface {
	// Geocode returns ok=false when the provider could not place the text.
	Geocode(ctx context.Context, location string) (coords domain.Coordinates, ok bool, err error)
}

type GeocodeCache interface {
	Get(ctx context.Context, location string) (coords domain.Coordinates, found bool, err error)
	Set(ctx context.Context, location string, coords domain.Coordinates) error
}

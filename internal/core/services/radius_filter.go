package services

import (
	"math"
	"strings"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type SearchQuery struct {
	Name         string  `json:"name" validate:"max=200"`
	LocationText string  `json:"location" validate:"max=200"`
	RadiusMiles  float64 `json:"radius" validate:"gte=0"`
}

// Matches reports whether e satisfies q. With a resolved center and
// parsable entity coordinates the location test is a great-circle radius
// check; otherwise it falls back to matching the address or zip code.
func Matches(e domain.Locatable, q SearchQuery, center *domain.Coordinates) bool {
	return matchesName(e, q.Name) && matchesLocation(e.Place(), q, center)
}

// FilterByRadius keeps the items matching q, in order.
func FilterByRadius[T domain.Locatable](items []T, q SearchQuery, center *domain.Coordinates) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(item, q, center) {
			out = append(out, item)
		}
	}
	return out
}

func matchesName(e domain.Locatable, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return true
	}
	title, description := e.SearchFields()
	return strings.Contains(strings.ToLower(title), name) ||
		strings.Contains(strings.ToLower(description), name)
}

func matchesLocation(loc domain.Location, q SearchQuery, center *domain.Coordinates) bool {
	text := strings.TrimSpace(q.LocationText)
	if text == "" {
		return true
	}

	if center != nil {
		if coords, ok := loc.Coordinates(); ok {
			d := center.DistanceTo(coords)
			// NaN compares false, so bad data never matches
			return !math.IsNaN(d) && d <= q.RadiusMiles
		}
	}

	if strings.Contains(strings.ToLower(loc.AddressText()), strings.ToLower(text)) {
		return true
	}
	return loc.Zipcode != "" && strings.Contains(loc.Zipcode, text)
}

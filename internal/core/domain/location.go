package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type Center struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	Lat     string `json:"lat"`
	Long    string `json:"long"`
}

// Location is either embedded address data or a reference to a Center.
// Coordinates arrive as strings from the remote and may not parse.
type Location struct {
	Address string  `json:"address,omitempty"`
	Zipcode string  `json:"zipcode,omitempty"`
	Lat     string  `json:"lat,omitempty"`
	Long    string  `json:"long,omitempty"`
	Center  *Center `json:"center,omitempty"`
}

// Coordinates returns the first parsable pair, embedded first then center.
func (l Location) Coordinates() (Coordinates, bool) {
	if c, ok := parseCoordinates(l.Lat, l.Long); ok {
		return c, true
	}
	if l.Center != nil {
		return parseCoordinates(l.Center.Lat, l.Center.Long)
	}
	return Coordinates{}, false
}

// AddressText is the address string used by the substring fallback.
func (l Location) AddressText() string {
	if l.Address != "" {
		return l.Address
	}
	if l.Center != nil {
		return l.Center.Address
	}
	return ""
}

func parseCoordinates(lat, lng string) (Coordinates, bool) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || math.IsNaN(la) || math.IsInf(la, 0) || la < -90 || la > 90 {
		return Coordinates{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil || math.IsNaN(lo) || math.IsInf(lo, 0) || lo < -180 || lo > 180 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: la, Lng: lo}, true
}

// Locatable is anything the radius search can classify.
type Locatable interface {
	SearchFields() (title, description string)
	Place() Location
}

// Dated is anything the calendar grid can place on a day.
type Dated interface {
	Date() time.Time
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Location    Location  `json:"location"`
}

func (e Event) SearchFields() (string, string) { return e.Title, e.Description }
func (e Event) Place() Location                 { return e.Location }
func (e Event) Date() time.Time                 { return e.StartsAt }

type Tournament struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Format      string    `json:"format,omitempty"`
	EntryFee    float64   `json:"entry_fee,omitempty"`
	StartDate   time.Time `json:"start_date"`
	Location    Location  `json:"location"`
}

func (t Tournament) SearchFields() (string, string) { return t.Name, t.Description }
func (t Tournament) Place() Location                 { return t.Location }
func (t Tournament) Date() time.Time                 { return t.StartDate }

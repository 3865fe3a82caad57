package domain

import "math"

// EarthRadiusMiles is the mean radius used by Distance.
const EarthRadiusMiles = 3959.0

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the haversine great-circle distance in miles. NaN inputs
// yield NaN, which callers must treat as "no match".
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a a hair above 1 for antipodal points
	a = math.Min(a, 1)
	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (c Coordinates) DistanceTo(o Coordinates) float64 {
	return Distance(c.Lat, c.Lng, o.Lat, o.Lng)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

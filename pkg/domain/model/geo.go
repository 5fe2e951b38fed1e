package model

import "math"

const earthRadiusMiles = 3958.7613

// Coordinates is a WGS84 latitude/longitude pair in degrees
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// MilesBetween returns the great-circle distance between two points in statute miles
func MilesBetween(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

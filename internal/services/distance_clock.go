package services

import (
	"eld-trip-planner/internal/domain"
	"math"
)

const (
	// Mean Earth radius in statute miles.
	earthRadiusMiles = 3958.8

	// Fixed average truck speed used for every segment.
	AverageSpeedMph = 55.0
)

// Distance returns the great-circle distance in miles between a and b
// using the haversine formula.
func Distance(a, b domain.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// TravelTime returns hours needed to cover miles at speedMph.
func TravelTime(miles, speedMph float64) float64 {
	return miles / speedMph
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

package services

import (
	"eld-trip-planner/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceNewYorkToLosAngeles(t *testing.T) {
	ny := domain.Coordinate{Lat: 40.7128, Lon: -74.0060}
	la := domain.Coordinate{Lat: 34.0522, Lon: -118.2437}

	assert.InDelta(t, 2445, Distance(ny, la), 5)
	assert.InDelta(t, Distance(ny, la), Distance(la, ny), 1e-9, "distance should be symmetric")
}

func TestDistanceSamePointIsZero(t *testing.T) {
	p := domain.Coordinate{Lat: 41.8781, Lon: -87.6298}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceOneDegreeOfLatitude(t *testing.T) {
	a := domain.Coordinate{Lat: 30, Lon: -100}
	b := domain.Coordinate{Lat: 31, Lon: -100}
	assert.InDelta(t, 69.094, Distance(a, b), 0.01)
}

func TestTravelTime(t *testing.T) {
	assert.Equal(t, 2.0, TravelTime(110, AverageSpeedMph))
	assert.Equal(t, 0.0, TravelTime(0, AverageSpeedMph))
}

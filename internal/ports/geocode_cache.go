package ports

import (
	"context"
	"eld-trip-planner/internal/domain"
)

// Port: a persistent or shared store of descriptor -> coordinate results.
// Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	// Return cached coordinates for the given keys. Misses are absent from the map.
	GetMany(ctx context.Context, keys []string) (map[string]domain.Coordinate, error)
	// Store coordinates for the given keys, replacing existing entries.
	PutMany(ctx context.Context, results map[string]domain.Coordinate) error
}

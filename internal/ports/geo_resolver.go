package ports

import (
	"context"
	"eld-trip-planner/internal/domain"
)

// Contract for mapping a free-form location descriptor to a coordinate.
type GeoResolver interface {
	// Resolve returns the coordinate for descriptor, or an error wrapping
	// domain.ErrUnresolvableLocation when none can be determined.
	Resolve(ctx context.Context, descriptor string) (domain.Coordinate, error)
}

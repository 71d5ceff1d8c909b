package services

import (
	"context"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/ports"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

type PlanTripRequest struct {
	CurrentLocation   string
	PickupLocation    string
	DropoffLocation   string
	CurrentCycleHours float64
}

// Validate reports the first malformed field as domain.ErrInvalidInput.
func (r PlanTripRequest) Validate() error {
	fields := []struct{ name, value string }{
		{"current_location", r.CurrentLocation},
		{"pickup_location", r.PickupLocation},
		{"dropoff_location", r.DropoffLocation},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, f.name)
		}
	}

	c := r.CurrentCycleHours
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return fmt.Errorf("%w: current_cycle_hours must be a finite non-negative number", domain.ErrInvalidInput)
	}
	if c > MaxCycleHours {
		return fmt.Errorf("%w: current_cycle_hours must not exceed %v", domain.ErrInvalidInput, MaxCycleHours)
	}

	return nil
}

// PlanTrip resolves the three trip locations and plans the route stops.
//
// Locations are resolved concurrently. The first resolver failure cancels
// the others and is returned; no partial plan is built.
func PlanTrip(ctx context.Context, req PlanTripRequest, resolver ports.GeoResolver) (*domain.RoutePlan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	if resolver == nil {
		return nil, errors.New("plan trip: resolver must be non-nil")
	}

	descriptors := [3]string{
		strings.TrimSpace(req.CurrentLocation),
		strings.TrimSpace(req.PickupLocation),
		strings.TrimSpace(req.DropoffLocation),
	}
	labels := [3]string{"current location", "pickup location", "dropoff location"}

	var coords [3]domain.Coordinate
	g, gctx := errgroup.WithContext(ctx)
	for i := range descriptors {
		i := i
		g.Go(func() error {
			c, err := resolver.Resolve(gctx, descriptors[i])
			if err != nil {
				return fmt.Errorf("resolve %s %q: %w", labels[i], descriptors[i], err)
			}
			coords[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	plan, err := PlanStops(coords[0], coords[1], coords[2], req.CurrentCycleHours)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	plan.StartLocation = descriptors[0]
	plan.PickupLocation = descriptors[1]
	plan.DropoffLocation = descriptors[2]

	return plan, nil
}

package services

import (
	"context"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/domain"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls atomic.Int32
	next  *geocode.Gazetteer
}

func (c *countingResolver) Resolve(ctx context.Context, descriptor string) (domain.Coordinate, error) {
	c.calls.Add(1)
	return c.next.Resolve(ctx, descriptor)
}

func validRequest() PlanTripRequest {
	return PlanTripRequest{
		CurrentLocation: "New York, NY",
		PickupLocation:  "Chicago, IL",
		DropoffLocation: "Los Angeles, CA",
	}
}

func TestPlanTripResolvesAndPlans(t *testing.T) {
	resolver := &countingResolver{next: geocode.NewGazetteer()}

	plan, err := PlanTrip(context.Background(), validRequest(), resolver)
	require.NoError(t, err)

	assert.Equal(t, int32(3), resolver.calls.Load())
	assert.Equal(t, newYork, plan.StartCoord)
	assert.Equal(t, chicago, plan.PickupCoord)
	assert.Equal(t, losAngeles, plan.DropoffCoord)
	assert.Equal(t, "New York, NY", plan.StartLocation)
	assert.Equal(t, "Chicago, IL", plan.PickupLocation)
	assert.Equal(t, "Los Angeles, CA", plan.DropoffLocation)
	assert.Len(t, plan.FuelStops, 2)
}

func TestPlanTripIsIdempotent(t *testing.T) {
	resolver := geocode.NewGazetteer()
	req := validRequest()
	req.CurrentCycleHours = 33.5

	first, err := PlanTrip(context.Background(), req, resolver)
	require.NoError(t, err)
	second, err := PlanTrip(context.Background(), req, resolver)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("plans differ (-first +second):\n%s", diff)
	}
}

func TestPlanTripValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlanTripRequest)
		field  string
	}{
		{"empty current", func(r *PlanTripRequest) { r.CurrentLocation = "  " }, "current_location"},
		{"empty pickup", func(r *PlanTripRequest) { r.PickupLocation = "" }, "pickup_location"},
		{"empty dropoff", func(r *PlanTripRequest) { r.DropoffLocation = "\t" }, "dropoff_location"},
		{"negative cycle", func(r *PlanTripRequest) { r.CurrentCycleHours = -0.5 }, "current_cycle_hours"},
		{"nan cycle", func(r *PlanTripRequest) { r.CurrentCycleHours = math.NaN() }, "current_cycle_hours"},
		{"cycle over cap", func(r *PlanTripRequest) { r.CurrentCycleHours = 70.5 }, "current_cycle_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &countingResolver{next: geocode.NewGazetteer()}
			req := validRequest()
			tt.mutate(&req)

			_, err := PlanTrip(context.Background(), req, resolver)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
			assert.Zero(t, resolver.calls.Load())
		})
	}
}

func TestPlanTripCycleAtCapIsAccepted(t *testing.T) {
	req := validRequest()
	req.CurrentCycleHours = MaxCycleHours

	_, err := PlanTrip(context.Background(), req, geocode.NewGazetteer())
	assert.NoError(t, err)
}

func TestPlanTripUnresolvableLocation(t *testing.T) {
	req := validRequest()
	req.PickupLocation = "Atlantis"

	_, err := PlanTrip(context.Background(), req, geocode.NewGazetteer())
	require.ErrorIs(t, err, domain.ErrUnresolvableLocation)
	assert.Contains(t, err.Error(), "pickup location")
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, string) (domain.Coordinate, error) {
	return domain.Coordinate{}, f.err
}

func TestPlanTripPropagatesResolverErrors(t *testing.T) {
	boom := errors.New("geocoder offline")

	_, err := PlanTrip(context.Background(), validRequest(), failingResolver{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestPlanTripNilResolver(t *testing.T) {
	_, err := PlanTrip(context.Background(), validRequest(), nil)
	assert.Error(t, err)
}

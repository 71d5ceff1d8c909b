package services

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"math"
)

// HOS limits and trip allowances applied by the stop planner.
const (
	MaxDrivingHours      = 11.0
	MaxOnDutyHours       = 14.0
	BreakAfterHours      = 8.0
	ShortBreakHours      = 0.5
	ResetHours           = 10.0
	FuelIntervalMiles    = 1000.0
	PickupHandlingHours  = 1.0
	DropoffHandlingHours = 1.0
	MaxCycleHours        = 70.0
	pickupLegSegments    = 20
	deliveryLegSegments  = 30
)

// stopPlanner holds the running counters for one traversal. It is created
// per call and never shared.
type stopPlanner struct {
	remainingDriving float64
	remainingOnDuty  float64
	sinceBreak       float64
	sinceReset       float64
	distanceCovered  float64
	lastFuelDistance float64
	restStops        []domain.RestStop
	fuelStops        []domain.FuelStop
}

// PlanStops walks the interpolated start -> pickup -> dropoff route and
// inserts the mandatory rest stops and fuel stops.
//
// The initial limits are derived from currentCycleHours by modulo rather
// than from an elapsed duty clock. The driving limit and on-duty window are
// compared against driving time since the last reset; a reset zeroes it.
func PlanStops(start, pickup, dropoff domain.Coordinate, currentCycleHours float64) (*domain.RoutePlan, error) {
	if math.IsNaN(currentCycleHours) || math.IsInf(currentCycleHours, 0) || currentCycleHours < 0 {
		return nil, fmt.Errorf("plan stops: %w: current cycle hours must be a finite non-negative number", domain.ErrInvalidInput)
	}

	toPickup := GenerateRoutePoints(start, pickup, pickupLegSegments)
	toDropoff := GenerateRoutePoints(pickup, dropoff, deliveryLegSegments)

	// The pickup point ends the first leg and starts the second.
	route := make([]domain.Coordinate, 0, len(toPickup)+len(toDropoff)-1)
	route = append(route, toPickup...)
	route = append(route, toDropoff[1:]...)

	p := &stopPlanner{
		remainingDriving: MaxDrivingHours - math.Mod(currentCycleHours, MaxDrivingHours),
		remainingOnDuty:  MaxOnDutyHours - math.Mod(currentCycleHours, MaxOnDutyHours),
		sinceBreak:       math.Mod(currentCycleHours, BreakAfterHours),
	}

	for i := 1; i < len(route); i++ {
		segment := Distance(route[i-1], route[i])
		if segment < 0 || math.IsNaN(segment) || math.IsInf(segment, 0) {
			return nil, fmt.Errorf(
				"plan stops: %w: segment %d has distance %v",
				domain.ErrComputation, i, segment,
			)
		}
		p.advance(route[i], segment)
	}

	totalDistance := Distance(start, pickup) + Distance(pickup, dropoff)
	totalDriving := TravelTime(totalDistance, AverageSpeedMph)

	plan := &domain.RoutePlan{
		StartCoord:         start,
		PickupCoord:        pickup,
		DropoffCoord:       dropoff,
		CurrentCycleHours:  currentCycleHours,
		TotalDistanceMiles: totalDistance,
		TotalDrivingHours:  totalDriving,
		RestStops:          p.restStops,
		FuelStops:          p.fuelStops,
		RouteCoordinates:   route,
	}
	plan.TotalTripHours = totalDriving + plan.RestHours() + PickupHandlingHours + DropoffHandlingHours

	return plan, nil
}

// advance accounts for one route segment ending at point and applies the
// break, reset and fuel rules in that order.
func (p *stopPlanner) advance(point domain.Coordinate, miles float64) {
	hours := TravelTime(miles, AverageSpeedMph)

	p.distanceCovered += miles
	p.sinceBreak += hours
	p.sinceReset += hours

	if p.sinceBreak >= BreakAfterHours {
		p.restStops = append(p.restStops, domain.RestStop{
			Coordinate:    point,
			DurationHours: ShortBreakHours,
			Reason:        domain.ShortBreak,
		})
		p.sinceBreak = 0
	}

	drivingLimit := p.sinceReset >= p.remainingDriving
	onDutyLimit := p.sinceReset >= p.remainingOnDuty
	if drivingLimit || onDutyLimit {
		reason := domain.OnDutyLimitReset
		if drivingLimit {
			reason = domain.DrivingLimitReset
		}

		p.restStops = append(p.restStops, domain.RestStop{
			Coordinate:    point,
			DurationHours: ResetHours,
			Reason:        reason,
		})
		p.remainingDriving = MaxDrivingHours
		p.remainingOnDuty = MaxOnDutyHours
		p.sinceBreak = 0
		p.sinceReset = 0
	}

	if p.distanceCovered-p.lastFuelDistance >= FuelIntervalMiles {
		p.fuelStops = append(p.fuelStops, domain.FuelStop{
			Coordinate:              point,
			CumulativeDistanceMiles: p.distanceCovered,
		})
		p.lastFuelDistance = p.distanceCovered
	}
}

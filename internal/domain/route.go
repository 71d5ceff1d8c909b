package domain

import (
	"cmp"
	"fmt"
	"slices"
)

// RestReason classifies why a rest stop was inserted into a route.
type RestReason int

const (
	ShortBreak RestReason = iota + 1
	DrivingLimitReset
	OnDutyLimitReset
)

var restReasonCodes = map[RestReason]string{
	ShortBreak:        "short_break",
	DrivingLimitReset: "driving_limit_reset",
	OnDutyLimitReset:  "on_duty_limit_reset",
}

var restReasonLabels = map[RestReason]string{
	ShortBreak:        "30-minute break (8-hour driving limit)",
	DrivingLimitReset: "10-hour rest (11-hour driving limit)",
	OnDutyLimitReset:  "10-hour rest (14-hour on-duty limit)",
}

// Code is the stable machine-readable name of the reason.
func (r RestReason) Code() string {
	if c, ok := restReasonCodes[r]; ok {
		return c
	}
	return "unknown"
}

// String is the human-readable narration used in plans and log events.
func (r RestReason) String() string {
	if l, ok := restReasonLabels[r]; ok {
		return l
	}
	return fmt.Sprintf("RestReason(%d)", int(r))
}

// ParseRestReason accepts either a code or a label.
func ParseRestReason(s string) (RestReason, error) {
	for r, c := range restReasonCodes {
		if s == c || s == restReasonLabels[r] {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rest reason %q", ErrInvalidInput, s)
}

// RouteStop is a planned stop along the route, either a RestStop or a
// FuelStop.
type RouteStop interface {
	Location() Coordinate
}

// A mandatory rest period placed at a point along the route.
type RestStop struct {
	Coordinate    Coordinate
	DurationHours float64
	Reason        RestReason
}

// A refuelling point placed once cumulative distance since the previous
// fuel stop reaches the fuel interval.
type FuelStop struct {
	Coordinate              Coordinate
	CumulativeDistanceMiles float64
}

func (s RestStop) Location() Coordinate { return s.Coordinate }

func (s FuelStop) Location() Coordinate { return s.Coordinate }

// Represents the planned trip from the driver's current location through
// pickup to dropoff, with the HOS rest stops and fuel stops along it.
// A RoutePlan is produced once per planning request and is not mutated
// afterwards.
type RoutePlan struct {
	StartLocation   string
	PickupLocation  string
	DropoffLocation string

	StartCoord   Coordinate
	PickupCoord  Coordinate
	DropoffCoord Coordinate

	CurrentCycleHours  float64
	TotalDistanceMiles float64
	TotalDrivingHours  float64
	TotalTripHours     float64

	RestStops        []RestStop
	FuelStops        []FuelStop
	RouteCoordinates []Coordinate
}

// Sum of all rest stop durations in hours.
func (p *RoutePlan) RestHours() float64 {
	total := 0.0
	for _, s := range p.RestStops {
		total += s.DurationHours
	}
	return total
}

// Stops returns the rest and fuel stops in route order. Stops at the same
// route point keep rest stops ahead of fuel stops; stops off the route come
// last.
func (p *RoutePlan) Stops() []RouteStop {
	position := make(map[Coordinate]int, len(p.RouteCoordinates))
	for i, c := range p.RouteCoordinates {
		if _, ok := position[c]; !ok {
			position[c] = i
		}
	}
	at := func(s RouteStop) int {
		if i, ok := position[s.Location()]; ok {
			return i
		}
		return len(p.RouteCoordinates)
	}

	stops := make([]RouteStop, 0, len(p.RestStops)+len(p.FuelStops))
	for _, s := range p.RestStops {
		stops = append(stops, s)
	}
	for _, s := range p.FuelStops {
		stops = append(stops, s)
	}

	slices.SortStableFunc(stops, func(a, b RouteStop) int {
		return cmp.Compare(at(a), at(b))
	})
	return stops
}

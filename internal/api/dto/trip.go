package dto

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"time"
)

const (
	DateLayout         = "2006-01-02"
	CalendarDateLayout = "Mon, Jan 02"
)

type GeocodeResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CalculateRouteRequest struct {
	CurrentLocation   string  `json:"current_location"`
	PickupLocation    string  `json:"pickup_location"`
	DropoffLocation   string  `json:"dropoff_location"`
	CurrentCycleHours float64 `json:"current_cycle_hours"`
}

type RestStopResponse struct {
	Coordinates []float64 `json:"coordinates"`
	Duration    float64   `json:"duration"`
	Reason      string    `json:"reason"`
	ReasonCode  string    `json:"reason_code,omitempty"`
}

type FuelStopResponse struct {
	Coordinates []float64 `json:"coordinates"`
	Distance    float64   `json:"distance"`
}

// RoutePlanResponse is the wire form of a route plan. Coordinates are
// [lat, lng] pairs; distances are miles and times are hours.
type RoutePlanResponse struct {
	StartLocation      string             `json:"start_location"`
	PickupLocation     string             `json:"pickup_location"`
	DropoffLocation    string             `json:"dropoff_location"`
	StartCoordinates   []float64          `json:"start_coordinates"`
	PickupCoordinates  []float64          `json:"pickup_coordinates"`
	DropoffCoordinates []float64          `json:"dropoff_coordinates"`
	TotalDistance      float64            `json:"total_distance"`
	DrivingTime        float64            `json:"driving_time"`
	TotalTripTime      float64            `json:"total_trip_time"`
	CurrentCycleHours  float64            `json:"current_cycle_hours"`
	RestStops          []RestStopResponse `json:"rest_stops"`
	FuelStops          []FuelStopResponse `json:"fuel_stops"`
	RouteCoordinates   [][]float64        `json:"route_coordinates"`
}

// GenerateLogsRequest accepts a route plan as returned by calculate-route,
// plus an optional first calendar day.
type GenerateLogsRequest struct {
	RoutePlanResponse
	StartDate string `json:"start_date,omitempty"`
}

type StatusBlockResponse struct {
	Status    string  `json:"status"`
	StartHour float64 `json:"start_hour"`
	EndHour   float64 `json:"end_hour"`
}

type EventResponse struct {
	Hour        float64 `json:"hour"`
	Description string  `json:"description"`
}

type DayLogResponse struct {
	Date           string                `json:"date"`
	CalendarDate   string                `json:"calendar_date"`
	StatusBlocks   []StatusBlockResponse `json:"status_blocks"`
	Events         []EventResponse       `json:"events"`
	DrivingHours   float64               `json:"driving_hours"`
	OnDutyHours    float64               `json:"on_duty_hours"`
	OffDutyHours   float64               `json:"off_duty_hours"`
	CycleHoursUsed float64               `json:"cycle_hours_used"`
}

type TripLogResponse struct {
	Days            []DayLogResponse `json:"days"`
	PriorCycleHours float64          `json:"prior_cycle_hours"`
}

func NewRoutePlanResponse(p *domain.RoutePlan) RoutePlanResponse {
	res := RoutePlanResponse{
		StartLocation:      p.StartLocation,
		PickupLocation:     p.PickupLocation,
		DropoffLocation:    p.DropoffLocation,
		StartCoordinates:   p.StartCoord.LatLng(),
		PickupCoordinates:  p.PickupCoord.LatLng(),
		DropoffCoordinates: p.DropoffCoord.LatLng(),
		TotalDistance:      p.TotalDistanceMiles,
		DrivingTime:        p.TotalDrivingHours,
		TotalTripTime:      p.TotalTripHours,
		CurrentCycleHours:  p.CurrentCycleHours,
		RestStops:          make([]RestStopResponse, 0, len(p.RestStops)),
		FuelStops:          make([]FuelStopResponse, 0, len(p.FuelStops)),
		RouteCoordinates:   make([][]float64, 0, len(p.RouteCoordinates)),
	}

	for _, s := range p.RestStops {
		res.RestStops = append(res.RestStops, RestStopResponse{
			Coordinates: s.Coordinate.LatLng(),
			Duration:    s.DurationHours,
			Reason:      s.Reason.String(),
			ReasonCode:  s.Reason.Code(),
		})
	}
	for _, s := range p.FuelStops {
		res.FuelStops = append(res.FuelStops, FuelStopResponse{
			Coordinates: s.Coordinate.LatLng(),
			Distance:    s.CumulativeDistanceMiles,
		})
	}
	for _, c := range p.RouteCoordinates {
		res.RouteCoordinates = append(res.RouteCoordinates, c.LatLng())
	}

	return res
}

// ToDomain converts the wire plan back into a domain.RoutePlan. Malformed
// coordinates or unknown rest reasons wrap domain.ErrInvalidInput.
func (r RoutePlanResponse) ToDomain() (*domain.RoutePlan, error) {
	plan := &domain.RoutePlan{
		StartLocation:      r.StartLocation,
		PickupLocation:     r.PickupLocation,
		DropoffLocation:    r.DropoffLocation,
		CurrentCycleHours:  r.CurrentCycleHours,
		TotalDistanceMiles: r.TotalDistance,
		TotalDrivingHours:  r.DrivingTime,
		TotalTripHours:     r.TotalTripTime,
	}

	var err error
	if plan.StartCoord, err = optionalCoordinate("start_coordinates", r.StartCoordinates); err != nil {
		return nil, err
	}
	if plan.PickupCoord, err = optionalCoordinate("pickup_coordinates", r.PickupCoordinates); err != nil {
		return nil, err
	}
	if plan.DropoffCoord, err = optionalCoordinate("dropoff_coordinates", r.DropoffCoordinates); err != nil {
		return nil, err
	}

	for i, s := range r.RestStops {
		c, err := parseCoordinate(fmt.Sprintf("rest_stops[%d].coordinates", i), s.Coordinates)
		if err != nil {
			return nil, err
		}

		reasonText := s.ReasonCode
		if reasonText == "" {
			reasonText = s.Reason
		}
		reason, err := domain.ParseRestReason(reasonText)
		if err != nil {
			return nil, fmt.Errorf("rest_stops[%d]: %w", i, err)
		}

		plan.RestStops = append(plan.RestStops, domain.RestStop{
			Coordinate:    c,
			DurationHours: s.Duration,
			Reason:        reason,
		})
	}

	for i, s := range r.FuelStops {
		c, err := parseCoordinate(fmt.Sprintf("fuel_stops[%d].coordinates", i), s.Coordinates)
		if err != nil {
			return nil, err
		}
		plan.FuelStops = append(plan.FuelStops, domain.FuelStop{
			Coordinate:              c,
			CumulativeDistanceMiles: s.Distance,
		})
	}

	for i, pair := range r.RouteCoordinates {
		c, err := parseCoordinate(fmt.Sprintf("route_coordinates[%d]", i), pair)
		if err != nil {
			return nil, err
		}
		plan.RouteCoordinates = append(plan.RouteCoordinates, c)
	}

	return plan, nil
}

// ParseStartDate returns the requested first log day, or today when unset.
func (r GenerateLogsRequest) ParseStartDate(now time.Time) (time.Time, error) {
	if r.StartDate == "" {
		return now, nil
	}

	d, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return d, nil
}

func NewTripLogResponse(log *domain.TripLog) TripLogResponse {
	res := TripLogResponse{
		Days:            make([]DayLogResponse, 0, len(log.Days)),
		PriorCycleHours: log.PriorCycleHours,
	}

	for _, d := range log.Days {
		day := DayLogResponse{
			Date:           d.Date.Format(DateLayout),
			CalendarDate:   d.Date.Format(CalendarDateLayout),
			StatusBlocks:   make([]StatusBlockResponse, 0, len(d.StatusBlocks)),
			Events:         make([]EventResponse, 0, len(d.Events)),
			DrivingHours:   d.DrivingHours,
			OnDutyHours:    d.OnDutyHours,
			OffDutyHours:   d.OffDutyHours,
			CycleHoursUsed: d.CycleHoursUsed,
		}
		for _, b := range d.StatusBlocks {
			day.StatusBlocks = append(day.StatusBlocks, StatusBlockResponse{
				Status:    b.Status.Code(),
				StartHour: b.StartHour,
				EndHour:   b.EndHour,
			})
		}
		for _, e := range d.Events {
			day.Events = append(day.Events, EventResponse{Hour: e.Hour, Description: e.Description})
		}
		res.Days = append(res.Days, day)
	}

	return res
}

func parseCoordinate(field string, pair []float64) (domain.Coordinate, error) {
	if len(pair) != 2 {
		return domain.Coordinate{}, fmt.Errorf("%w: %s must be a [lat, lng] pair", domain.ErrInvalidInput, field)
	}
	return domain.Coordinate{Lat: pair[0], Lon: pair[1]}, nil
}

func optionalCoordinate(field string, pair []float64) (domain.Coordinate, error) {
	if pair == nil {
		return domain.Coordinate{}, nil
	}
	return parseCoordinate(field, pair)
}

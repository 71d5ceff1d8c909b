package services

import (
	"eld-trip-planner/internal/domain"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

const (
	hoursPerDay          = 24.0
	overnightRestHours   = 8.0
	drivingChunkHours    = 4.0
	sleeperBerthMinHours = 8.0
	dropoffWindowHours   = 1.0

	// Longest trip a log is built for. Bounds the day count taken from
	// client-supplied plans.
	maxLogDays = 60

	// Slack allowed when comparing a plan's trip hours with the sum of its
	// parts.
	tripHoursTolerance = 1e-6

	// Block ends this close to midnight are snapped to 24, and driving
	// left below it counts as done.
	hourEpsilon = 1e-9
)

// dutyState is a step of the per-day log construction.
type dutyState int

const (
	stateDayStart dutyState = iota
	stateAwaitingRestStop
	stateAwaitingPickup
	stateAwaitingDropoff
	stateDriving
	stateDayEnd
	stateDone
)

func (s dutyState) String() string {
	switch s {
	case stateDayStart:
		return "DayStart"
	case stateAwaitingRestStop:
		return "AwaitingRestStop"
	case stateAwaitingPickup:
		return "AwaitingPickup"
	case stateAwaitingDropoff:
		return "AwaitingDropoff"
	case stateDriving:
		return "Driving"
	case stateDayEnd:
		return "DayEnd"
	default:
		return "Done"
	}
}

// dutyLogBuilder carries the request-scoped counters across days.
type dutyLogBuilder struct {
	startDate        time.Time
	totalDays        int
	dayIndex         int
	hour             float64
	cycleHours       float64
	remainingDriving float64
	pending          []domain.RestStop

	day        domain.DayLog
	dayDriving float64
	dayOnDuty  float64
	days       []domain.DayLog
}

// BuildDutyLog converts a RoutePlan into one DayLog per calendar day,
// starting at startDate.
//
// The number of days is ceil(TotalTripHours / 24). Each day after the first
// opens with a fixed 8-hour off-duty rest, whatever the pending rest stop
// length. Cycle hours count this trip's on-duty time from zero and only grow;
// they are never rolled over on a 70-hour/8-day boundary. The plan's
// CurrentCycleHours is carried separately as the trip's prior cycle hours.
func BuildDutyLog(plan *domain.RoutePlan, startDate time.Time) (*domain.TripLog, error) {
	if err := validatePlan(plan); err != nil {
		return nil, fmt.Errorf("build duty log: %w", err)
	}

	y, m, d := startDate.Date()
	b := &dutyLogBuilder{
		startDate:        time.Date(y, m, d, 0, 0, 0, 0, startDate.Location()),
		totalDays:        int(math.Ceil(plan.TotalTripHours / hoursPerDay)),
		remainingDriving: plan.TotalDrivingHours,
		pending:          slices.Clone(plan.RestStops),
	}

	if err := b.run(); err != nil {
		return nil, fmt.Errorf("build duty log: %w", err)
	}

	return &domain.TripLog{Days: b.days, PriorCycleHours: plan.CurrentCycleHours}, nil
}

func validatePlan(plan *domain.RoutePlan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", domain.ErrInvalidInput)
	}

	if !finiteNonNegative(plan.TotalDrivingHours) {
		return fmt.Errorf("%w: total driving hours must be a finite non-negative number, got %v", domain.ErrInvalidInput, plan.TotalDrivingHours)
	}
	if !finiteNonNegative(plan.TotalTripHours) {
		return fmt.Errorf("%w: total trip hours must be a finite non-negative number, got %v", domain.ErrInvalidInput, plan.TotalTripHours)
	}
	if !finiteNonNegative(plan.CurrentCycleHours) {
		return fmt.Errorf("%w: current cycle hours must be a finite non-negative number, got %v", domain.ErrInvalidInput, plan.CurrentCycleHours)
	}

	for i, s := range plan.RestStops {
		if !finiteNonNegative(s.DurationHours) || s.DurationHours == 0 {
			return fmt.Errorf("%w: rest stop %d has invalid duration %v", domain.ErrInvalidInput, i, s.DurationHours)
		}
	}

	// Trip hours decide the day count, so they must agree with the plan's
	// own contents and stay within the log horizon.
	maxTrip := plan.TotalDrivingHours + plan.RestHours() + PickupHandlingHours + DropoffHandlingHours
	if plan.TotalTripHours > maxTrip+tripHoursTolerance {
		return fmt.Errorf("%w: total trip hours %v exceed driving, rest and handling hours %v", domain.ErrInvalidInput, plan.TotalTripHours, maxTrip)
	}
	if plan.TotalTripHours > maxLogDays*hoursPerDay {
		return fmt.Errorf("%w: total trip hours %v exceed the %d-day log limit", domain.ErrInvalidInput, plan.TotalTripHours, maxLogDays)
	}

	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (b *dutyLogBuilder) run() error {
	state := stateDayStart
	if b.totalDays == 0 {
		state = stateDone
	}

	for state != stateDone {
		switch state {
		case stateDayStart:
			b.startDay()
		case stateAwaitingRestStop:
			b.takeRestStop()
		case stateAwaitingPickup:
			b.pickup()
		case stateAwaitingDropoff:
			b.dropoff()
		case stateDriving:
			b.drive()
		case stateDayEnd:
			if err := b.closeDay(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unexpected builder state %s", domain.ErrComputation, state)
		}
		state = b.next(state)
	}

	return nil
}

// next is the single transition function. Order matters: a due rest stop
// wins over pickup, pickup over dropoff, dropoff over driving.
func (b *dutyLogBuilder) next(current dutyState) dutyState {
	if current == stateDayEnd {
		if b.dayIndex >= b.totalDays {
			return stateDone
		}
		return stateDayStart
	}

	if b.hour >= hoursPerDay || b.remainingDriving <= hourEpsilon {
		return stateDayEnd
	}

	worked := b.dayDriving + b.dayOnDuty
	if len(b.pending) > 0 && worked >= b.pending[0].DurationHours {
		return stateAwaitingRestStop
	}

	if b.dayIndex == 0 && b.dayDriving == 0 && b.dayOnDuty == 0 {
		return stateAwaitingPickup
	}

	if b.remainingDriving <= dropoffWindowHours && b.dayDriving > 0 {
		return stateAwaitingDropoff
	}

	return stateDriving
}

func (b *dutyLogBuilder) startDay() {
	b.day = domain.DayLog{Date: b.startDate.AddDate(0, 0, b.dayIndex)}
	b.dayDriving = 0
	b.dayOnDuty = 0

	if b.dayIndex > 0 && b.hour == 0 {
		b.emit(domain.OffDuty, overnightRestHours, "Off duty (rest period)")
	}
}

func (b *dutyLogBuilder) takeRestStop() {
	stop := b.pending[0]
	b.pending = b.pending[1:]

	status := domain.OffDuty
	if stop.DurationHours >= sleeperBerthMinHours {
		status = domain.SleeperBerth
	}

	// A rest that runs past midnight is clipped; the next day opens with
	// its own off-duty block.
	b.emit(status, stop.DurationHours, fmt.Sprintf("%s (%s hours)", stop.Reason, formatHours(stop.DurationHours)))
}

func (b *dutyLogBuilder) pickup() {
	d := b.emit(domain.OnDutyNotDriving, PickupHandlingHours, "On duty - Pickup location")
	b.dayOnDuty += d
	b.cycleHours += d
}

func (b *dutyLogBuilder) dropoff() {
	d := b.emit(domain.OnDutyNotDriving, DropoffHandlingHours, "On duty - Dropoff location")
	b.dayOnDuty += d
	b.cycleHours += d
	b.remainingDriving = 0
}

func (b *dutyLogBuilder) drive() {
	chunk := min(drivingChunkHours, b.remainingDriving, hoursPerDay-b.hour)

	d := b.emit(domain.Driving, chunk, fmt.Sprintf("Driving (%.1f hours)", chunk))
	b.dayDriving += d
	b.cycleHours += d
	b.remainingDriving -= chunk
}

func (b *dutyLogBuilder) closeDay() error {
	if b.hour < hoursPerDay {
		description := ""
		if b.hour < hoursPerDay-1 {
			description = "Off duty"
		}
		b.emit(domain.OffDuty, hoursPerDay-b.hour, description)
	}

	tallyDay(&b.day)
	if err := checkPartition(b.day); err != nil {
		return fmt.Errorf("day %d: %w", b.dayIndex+1, err)
	}

	b.day.CycleHoursUsed = b.cycleHours
	b.days = append(b.days, b.day)

	b.hour = 0
	b.dayIndex++
	return nil
}

// emit appends a block of the given status starting at the current hour,
// clipped to midnight, and returns the logged duration. An empty
// description suppresses the event.
func (b *dutyLogBuilder) emit(status domain.DutyStatus, hours float64, description string) float64 {
	start := b.hour
	end := start + hours
	if end > hoursPerDay-hourEpsilon {
		end = hoursPerDay
	}

	b.day.StatusBlocks = append(b.day.StatusBlocks, domain.StatusBlock{
		Status:    status,
		StartHour: start,
		EndHour:   end,
	})
	if description != "" {
		b.day.Events = append(b.day.Events, domain.DayLogEvent{Hour: start, Description: description})
	}

	b.hour = end
	return end - start
}

func tallyDay(day *domain.DayLog) {
	day.DrivingHours, day.OnDutyHours, day.OffDutyHours = 0, 0, 0
	for _, blk := range day.StatusBlocks {
		switch blk.Status {
		case domain.Driving:
			day.DrivingHours += blk.Duration()
		case domain.OnDutyNotDriving:
			day.OnDutyHours += blk.Duration()
		default:
			day.OffDutyHours += blk.Duration()
		}
	}
}

// checkPartition verifies that the day's blocks tile [0,24) with no gap or
// overlap.
func checkPartition(day domain.DayLog) error {
	if len(day.StatusBlocks) == 0 {
		return fmt.Errorf("%w: day has no status blocks", domain.ErrComputation)
	}

	prevEnd := 0.0
	for i, blk := range day.StatusBlocks {
		if blk.StartHour != prevEnd {
			return fmt.Errorf("%w: block %d starts at %v, previous ended at %v", domain.ErrComputation, i, blk.StartHour, prevEnd)
		}
		if blk.EndHour <= blk.StartHour {
			return fmt.Errorf("%w: block %d is empty or inverted [%v,%v]", domain.ErrComputation, i, blk.StartHour, blk.EndHour)
		}
		prevEnd = blk.EndHour
	}

	if prevEnd != hoursPerDay {
		return fmt.Errorf("%w: blocks end at %v, want %v", domain.ErrComputation, prevEnd, hoursPerDay)
	}

	return nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

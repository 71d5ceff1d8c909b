package domain

import "time"

// DutyStatus is one of the four mutually exclusive ELD duty statuses.
type DutyStatus int

const (
	OffDuty DutyStatus = iota + 1
	SleeperBerth
	Driving
	OnDutyNotDriving
)

// Code returns the grid row label used on log sheets.
func (s DutyStatus) Code() string {
	switch s {
	case OffDuty:
		return "OFF"
	case SleeperBerth:
		return "SB"
	case Driving:
		return "D"
	case OnDutyNotDriving:
		return "ON"
	default:
		return "?"
	}
}

func (s DutyStatus) String() string {
	switch s {
	case OffDuty:
		return "Off Duty"
	case SleeperBerth:
		return "Sleeper Berth"
	case Driving:
		return "Driving"
	case OnDutyNotDriving:
		return "On Duty (not driving)"
	default:
		return "Unknown"
	}
}

// One contiguous interval of a single duty status within a day, in hours
// from midnight.
type StatusBlock struct {
	Status    DutyStatus
	StartHour float64
	EndHour   float64
}

func (b StatusBlock) Duration() float64 { return b.EndHour - b.StartHour }

// Narration of a status transition.
type DayLogEvent struct {
	Hour        float64
	Description string
}

// The duty-status log for one calendar day. Blocks partition [0,24).
// OffDutyHours includes sleeper-berth time.
type DayLog struct {
	Date           time.Time
	StatusBlocks   []StatusBlock
	Events         []DayLogEvent
	DrivingHours   float64
	OnDutyHours    float64
	OffDutyHours   float64
	CycleHoursUsed float64
}

// One DayLog per calendar day the trip spans, in order.
// PriorCycleHours are the cycle hours used before the trip began; the days'
// CycleHoursUsed count only the trip itself.
type TripLog struct {
	Days            []DayLog
	PriorCycleHours float64
}

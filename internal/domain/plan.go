package domain

import "time"

// Domain entities and the status cycle. This package is pure: no Gin,
// Postgres or Redis, every function is a transform over its inputs.

// Date and time layouts used by the stored document shape.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Status of a single action.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusPending    Status = "pending"
	StatusFinished   Status = "finished"
	StatusCanceled   Status = "canceled"
)

// Action is a sub-task of a plan. Schedule is either a date range
// (StartDate/EndDate) or a time slot (StartDate + StartTime/EndTime); the
// document shape allows both sets to be present at once.
type Action struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Status      Status `json:"status"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	ActualDate  string `json:"actualDate,omitempty"`
	ActualTime  string `json:"actualTime,omitempty"`
}

// Plan is a goal with a deadline and an ordered action list. Action order is
// insertion order and is preserved end to end.
type Plan struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Actions   []Action  `json:"actions"`
	OwnerID   int64     `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NextStatus returns the successor in the fixed status cycle:
// not_started -> pending -> finished -> canceled -> not_started.
// Unknown values (e.g. the legacy "not_yet") advance like not_started.
func NextStatus(s Status) Status {
	switch s {
	case StatusPending:
		return StatusFinished
	case StatusFinished:
		return StatusCanceled
	case StatusCanceled:
		return StatusNotStarted
	default:
		return StatusPending
	}
}

// CycleAction advances the action one step in the status cycle and applies
// the completion-stamp contract: entering finished records the wall-clock
// date and time, returning to not_started clears both. No other transition
// touches the actual fields.
func CycleAction(a *Action, now time.Time) {
	next := NextStatus(a.Status)
	switch next {
	case StatusFinished:
		a.ActualDate = now.Format(DateLayout)
		a.ActualTime = now.Format(TimeLayout)
	case StatusNotStarted:
		a.ActualDate = ""
		a.ActualTime = ""
	}
	a.Status = next
}

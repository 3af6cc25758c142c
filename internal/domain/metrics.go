package domain

import (
	"fmt"
	"math"
	"time"
)

// Severity of a deadline urgency chip.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeveritySafe     Severity = "safe"
)

// Urgency describes time remaining until a deadline.
type Urgency struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
	DaysLeft int      `json:"daysLeft"`
}

// DaysUrgency maps a deadline to a label and severity relative to now.
// Both sides are normalized to midnight first, so the hour of day on either
// input never shifts the day count. Callers must evaluate this per request,
// not cache it: "today" advances.
func DaysUrgency(deadline string, now time.Time) Urgency {
	end, err := time.ParseInLocation(DateLayout, deadline, now.Location())
	if err != nil {
		return Urgency{Label: "No deadline", Severity: SeveritySafe}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Ceil(end.Sub(today).Hours() / 24))

	switch {
	case days < 0:
		return Urgency{Label: fmt.Sprintf("%dd Overdue", -days), Severity: SeverityCritical, DaysLeft: days}
	case days == 0:
		return Urgency{Label: "Due Today", Severity: SeverityWarning, DaysLeft: days}
	case days == 1:
		return Urgency{Label: "Tomorrow", Severity: SeverityWarning, DaysLeft: days}
	case days <= 3:
		return Urgency{Label: fmt.Sprintf("%d days left", days), Severity: SeverityWarning, DaysLeft: days}
	default:
		return Urgency{Label: fmt.Sprintf("%d days left", days), Severity: SeveritySafe, DaysLeft: days}
	}
}

// ProgressRatio is the fraction of non-canceled actions that are finished,
// in [0, 1]. Canceled actions count for neither side.
func ProgressRatio(p Plan) float64 {
	valid, done := 0, 0
	for _, a := range p.Actions {
		if a.Status == StatusCanceled {
			continue
		}
		valid++
		if a.Status == StatusFinished {
			done++
		}
	}
	if valid == 0 {
		return 0
	}
	return float64(done) / float64(valid)
}

// PlanProgress is ProgressRatio as a percentage in [0, 100].
func PlanProgress(p Plan) float64 {
	return ProgressRatio(p) * 100
}

// Counts partitions a plan's actions by status. The four fields always sum
// to len(plan.Actions); unrecognized statuses land in Todo.
type Counts struct {
	Done     int `json:"done"`
	Active   int `json:"active"`
	Todo     int `json:"todo"`
	Canceled int `json:"canceled"`
}

// StatusCounts tallies actions by status.
func StatusCounts(p Plan) Counts {
	var c Counts
	for _, a := range p.Actions {
		switch a.Status {
		case StatusFinished:
			c.Done++
		case StatusPending:
			c.Active++
		case StatusCanceled:
			c.Canceled++
		default:
			c.Todo++
		}
	}
	return c
}

// ActionDuration formats the length of a time slot as "H hr M min",
// omitting a zero unit and rendering "0 min" for an empty slot. A slot that
// ends before it starts crosses midnight, so 23:00-01:00 is "2 hr".
// Returns "" when either input is missing or unparsable.
func ActionDuration(startTime, endTime string) string {
	s, err := time.Parse(TimeLayout, startTime)
	if err != nil {
		return ""
	}
	e, err := time.Parse(TimeLayout, endTime)
	if err != nil {
		return ""
	}
	mins := int(e.Sub(s).Minutes())
	if mins < 0 {
		mins += 24 * 60
	}
	h, m := mins/60, mins%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d hr %d min", h, m)
	case h > 0:
		return fmt.Sprintf("%d hr", h)
	default:
		return fmt.Sprintf("%d min", m)
	}
}

// VarianceStatus tells whether an action finished ahead of, behind, or on
// its planned schedule.
type VarianceStatus string

const (
	VarianceAhead  VarianceStatus = "ahead"
	VarianceBehind VarianceStatus = "behind"
	VarianceOnTime VarianceStatus = "on_time"
)

// Variance compares a planned day span against the actual completion date.
type Variance struct {
	PlannedDays int            `json:"plannedDays"`
	ActualDays  int            `json:"actualDays"`
	DeltaDays   int            `json:"deltaDays"`
	Status      VarianceStatus `json:"status"`
}

// ScheduleVariance computes planned vs actual duration for an action.
// Spans are inclusive: a task planned and finished on the same day is 1 day,
// not 0. plannedEnd may be empty, in which case the planned span is the
// start day alone. The bool is false when a required date is missing or
// unparsable; callers render a placeholder in that case.
func ScheduleVariance(plannedStart, plannedEnd, actualEnd string) (Variance, bool) {
	start, err := time.Parse(DateLayout, plannedStart)
	if err != nil {
		return Variance{}, false
	}
	planEnd := start
	if plannedEnd != "" {
		p, err := time.Parse(DateLayout, plannedEnd)
		if err != nil {
			return Variance{}, false
		}
		planEnd = p
	}
	actual, err := time.Parse(DateLayout, actualEnd)
	if err != nil {
		return Variance{}, false
	}

	v := Variance{
		PlannedDays: spanDays(start, planEnd),
		ActualDays:  spanDays(start, actual),
		DeltaDays:   daysBetween(actual, planEnd),
	}
	switch {
	case v.DeltaDays > 0:
		v.Status = VarianceAhead
	case v.DeltaDays < 0:
		v.Status = VarianceBehind
	default:
		v.Status = VarianceOnTime
	}
	return v, true
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// spanDays is the inclusive day count from start to end, never below 1.
func spanDays(start, end time.Time) int {
	d := daysBetween(start, end) + 1
	if d < 1 {
		return 1
	}
	return d
}

package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sort keys accepted by SortPlans.
const (
	SortByStartDate = "startDate"
	SortByProgress  = "progress"
	SortByDaysLeft  = "daysLeft"
	SortByActions   = "actions"
)

// Sort keys accepted by SortCompletedActions.
const (
	SortByActualDate = "actualDate"
	SortByActualDays = "actualDays"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortPlans returns a copy of plans ordered by key. The sort is stable, so
// plans comparing equal keep their input order. desc negates the natural
// order. Unknown keys fall back to comparing the matching string field
// (empty when there is none), which lets new fields sort without code
// changes here.
func SortPlans(plans []Plan, key, direction string) []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	cmp := planCompare(key)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if direction == SortDesc {
			c = -c
		}
		return c < 0
	})
	return out
}

func planCompare(key string) func(a, b Plan) int {
	switch key {
	case SortByProgress:
		// Unrounded ratio, so near-equal plans don't collapse into ties.
		return func(a, b Plan) int { return compareFloat(ProgressRatio(a), ProgressRatio(b)) }
	case SortByDaysLeft:
		return func(a, b Plan) int { return compareInt64(deadlineEpoch(a), deadlineEpoch(b)) }
	case SortByActions:
		return func(a, b Plan) int { return len(a.Actions) - len(b.Actions) }
	case SortByStartDate, "":
		return func(a, b Plan) int { return strings.Compare(a.StartDate, b.StartDate) }
	default:
		return func(a, b Plan) int { return strings.Compare(planField(a, key), planField(b, key)) }
	}
}

// planField resolves a plan field by its document name for the fallback
// comparator.
func planField(p Plan, key string) string {
	switch key {
	case "title":
		return p.Title
	case "endDate":
		return p.EndDate
	case "id":
		return strconv.FormatInt(p.ID, 10)
	case "createdAt":
		return p.CreatedAt.Format(time.RFC3339)
	default:
		return ""
	}
}

// deadlineEpoch converts the plan deadline to an epoch instant; earlier
// deadlines sort first under asc. Unparsable deadlines sort to the front.
func deadlineEpoch(p Plan) int64 {
	t, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return 0
	}
	return t.Unix()
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompletedAction is a finished action flattened out of its plan for the
// history view, tagged with its parent.
type CompletedAction struct {
	Action
	PlanID        int64  `json:"planId"`
	PlanTitle     string `json:"planTitle"`
	PlanStartDate string `json:"planStartDate"`
}

// CompletedActions flattens every finished action across plans, preserving
// plan order and action order within each plan.
func CompletedActions(plans []Plan) []CompletedAction {
	var out []CompletedAction
	for _, p := range plans {
		for _, a := range p.Actions {
			if a.Status != StatusFinished {
				continue
			}
			out = append(out, CompletedAction{
				Action:        a,
				PlanID:        p.ID,
				PlanTitle:     p.Title,
				PlanStartDate: p.StartDate,
			})
		}
	}
	return out
}

// CompletedAt is the completion instant as a sortable "date time" string;
// a missing time defaults to "00:00".
func (c CompletedAction) CompletedAt() string {
	t := c.ActualTime
	if t == "" {
		t = "00:00"
	}
	return c.ActualDate + " " + t
}

// ActualDays is the inclusive day span from the action's start date (the
// plan's start when the action has none) to the completion date. 0 when a
// date is missing.
func (c CompletedAction) ActualDays() int {
	start := c.StartDate
	if start == "" {
		start = c.PlanStartDate
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return 0
	}
	a, err := time.Parse(DateLayout, c.ActualDate)
	if err != nil {
		return 0
	}
	return spanDays(s, a)
}

// SortCompletedActions orders a flattened history list by completion
// instant (default) or by actual day span. Stable, asc/desc as SortPlans.
func SortCompletedActions(items []CompletedAction, key, direction string) []CompletedAction {
	out := make([]CompletedAction, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		var c int
		switch key {
		case SortByActualDays:
			c = out[i].ActualDays() - out[j].ActualDays()
		default:
			c = strings.Compare(out[i].CompletedAt(), out[j].CompletedAt())
		}
		if direction == SortDesc {
			c = -c
		}
		return c < 0
	})
	return out
}

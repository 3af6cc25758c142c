package dto

import (
	"time"

	dom "github.com/codewiththura/stratum-planner/internal/domain"
)

// ActionPayload is the wire shape of one action inside a plan document.
// Dates are YYYY-MM-DD, times HH:MM; either (or both) schedule modes may be
// present, the API does not force them apart.
type ActionPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title" binding:"max=200"`
	Status      string `json:"status" binding:"omitempty,oneof=not_started pending finished canceled"`
	Description string `json:"description" binding:"max=1000"`
	StartDate   string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	StartTime   string `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime     string `json:"endTime" binding:"omitempty,datetime=15:04"`
	ActualDate  string `json:"actualDate" binding:"omitempty,datetime=2006-01-02"`
	ActualTime  string `json:"actualTime" binding:"omitempty,datetime=15:04"`
}

// CreatePlanRequest is the JSON body for POST /plans.
type CreatePlanRequest struct {
	Title     string          `json:"title" binding:"required,min=1,max=120"`
	StartDate string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string          `json:"endDate" binding:"required,datetime=2006-01-02"`
	Actions   []ActionPayload `json:"actions"`
}

// UpdatePlanRequest is the JSON body for PUT /plans/:id. The document is
// replaced whole, actions array included.
type UpdatePlanRequest struct {
	Title     string          `json:"title" binding:"required,min=1,max=120"`
	StartDate string          `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string          `json:"endDate" binding:"required,datetime=2006-01-02"`
	Actions   []ActionPayload `json:"actions"`
}

// UrgencyResponse mirrors domain.Urgency.
type UrgencyResponse struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	DaysLeft int    `json:"daysLeft"`
}

// VarianceResponse mirrors domain.Variance.
type VarianceResponse struct {
	PlannedDays int    `json:"plannedDays"`
	ActualDays  int    `json:"actualDays"`
	DeltaDays   int    `json:"deltaDays"`
	Status      string `json:"status"`
}

// ActionResponse is an action plus its derived display values.
type ActionResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Status      string            `json:"status"`
	Description string            `json:"description,omitempty"`
	StartDate   string            `json:"startDate,omitempty"`
	EndDate     string            `json:"endDate,omitempty"`
	StartTime   string            `json:"startTime,omitempty"`
	EndTime     string            `json:"endTime,omitempty"`
	ActualDate  string            `json:"actualDate,omitempty"`
	ActualTime  string            `json:"actualTime,omitempty"`
	Duration    string            `json:"duration,omitempty"`
	Variance    *VarianceResponse `json:"variance,omitempty"`
}

// PlanResponse is a plan plus every derived value the views need, computed
// fresh on each request.
type PlanResponse struct {
	ID        int64            `json:"id"`
	Title     string           `json:"title"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	CreatedAt time.Time        `json:"createdAt"`
	Actions   []ActionResponse `json:"actions"`
	Progress  float64          `json:"progress"`
	Urgency   UrgencyResponse  `json:"urgency"`
	Counts    dom.Counts       `json:"counts"`
}

// ListPlansResponse wraps a sorted plan list.
type ListPlansResponse struct {
	Items []PlanResponse `json:"items"`
}

// CompletedActionResponse is one row of the history view.
type CompletedActionResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PlanID     int64  `json:"planId"`
	PlanTitle  string `json:"planTitle"`
	StartDate  string `json:"startDate,omitempty"`
	ActualDate string `json:"actualDate"`
	ActualTime string `json:"actualTime,omitempty"`
	ActualDays int    `json:"actualDays"`
}

// HistoryResponse wraps the completed-action history.
type HistoryResponse struct {
	Items []CompletedActionResponse `json:"items"`
}

// ToDomainActions converts payload actions into domain actions.
func ToDomainActions(in []ActionPayload) []dom.Action {
	out := make([]dom.Action, len(in))
	for i, a := range in {
		out[i] = dom.Action{
			ID:          a.ID,
			Title:       a.Title,
			Status:      dom.Status(a.Status),
			Description: a.Description,
			StartDate:   a.StartDate,
			EndDate:     a.EndDate,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			ActualDate:  a.ActualDate,
			ActualTime:  a.ActualTime,
		}
	}
	return out
}

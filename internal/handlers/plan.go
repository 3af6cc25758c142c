package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/codewiththura/stratum-planner/internal/auth"
	dom "github.com/codewiththura/stratum-planner/internal/domain"
	"github.com/codewiththura/stratum-planner/internal/dto"
	"github.com/codewiththura/stratum-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanSubscriber delivers change notifications for a user's plan list. The
// channel is poked after every successful write; stop releases the
// subscription.
type PlanSubscriber interface {
	SubscribePlans(ctx context.Context, userID int64) (<-chan struct{}, func())
}

// PlanHandler handles the plan CRUD, status cycling, history and the live
// subscription feed.
type PlanHandler struct {
	svc *service.PlanService
	bus PlanSubscriber
	now func() time.Time
}

// NewPlanHandler returns a new PlanHandler. bus may be nil, which disables
// the subscribe endpoint's change notifications. Day-relative metrics are
// evaluated on a clock anchored to loc.
func NewPlanHandler(svc *service.PlanService, bus PlanSubscriber, loc *time.Location) *PlanHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanHandler{
		svc: svc,
		bus: bus,
		now: func() time.Time { return time.Now().In(loc) },
	}
}

// Create godoc
// @Summary      Create a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreatePlanRequest  true  "Plan body"
// @Success      201   {object}  dto.PlanResponse
// @Failure      400   {object}  map[string]string
// @Router       /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.StartDate, req.EndDate, dto.ToDomainActions(req.Actions))
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrDeadlineRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, planToResponse(p, h.now()))
}

// List godoc
// @Summary      List plans with derived metrics
// @Tags         plans
// @Produce      json
// @Security     CookieAuth
// @Param        sort  query     string  false  "Sort key: startDate, progress, daysLeft, actions"
// @Param        dir   query     string  false  "Direction: asc or desc"
// @Success      200   {object}  dto.ListPlansResponse
// @Failure      500   {object}  map[string]string
// @Router       /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID, c.Query("sort"), c.Query("dir"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListPlansResponse{Items: plansToResponses(list, h.now())})
}

// GetByID godoc
// @Summary      Get a plan by ID
// @Tags         plans
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Plan ID"
// @Success      200  {object}  dto.PlanResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /plans/{id} [get]
func (h *PlanHandler) GetByID(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, planToResponse(p, h.now()))
}

// Update godoc
// @Summary      Replace a plan document
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Plan ID"
// @Param        body  body      dto.UpdatePlanRequest  true  "Full document"
// @Success      200   {object}  dto.PlanResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Update(c.Request.Context(), userID, id, req.Title, req.StartDate, req.EndDate, dto.ToDomainActions(req.Actions))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrDeadlineRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, planToResponse(p, h.now()))
}

// Delete godoc
// @Summary      Delete a plan
// @Tags         plans
// @Security     CookieAuth
// @Param        id   path  int  true  "Plan ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// CycleStatus godoc
// @Summary      Advance an action through the status cycle
// @Tags         plans
// @Produce      json
// @Security     CookieAuth
// @Param        id     path      int  true  "Plan ID"
// @Param        index  path      int  true  "Action index"
// @Success      200    {object}  dto.PlanResponse
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /plans/{id}/actions/{index}/cycle [post]
func (h *PlanHandler) CycleStatus(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action index"})
		return
	}
	p, err := h.svc.CycleStatus(c.Request.Context(), userID, id, index)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, service.ErrActionIndex):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, planToResponse(p, h.now()))
}

// History godoc
// @Summary      Completed-action history across all plans
// @Tags         plans
// @Produce      json
// @Security     CookieAuth
// @Param        sort  query     string  false  "Sort key: actualDate or actualDays"
// @Param        dir   query     string  false  "Direction: asc or desc"
// @Success      200   {object}  dto.HistoryResponse
// @Failure      500   {object}  map[string]string
// @Router       /plans/history [get]
func (h *PlanHandler) History(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	items, err := h.svc.History(c.Request.Context(), userID, c.Query("sort"), c.Query("dir"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Items: completedToResponses(items)})
}

// Subscribe godoc
// @Summary      Live plan feed (SSE)
// @Description  Streams the full plan list as a "plans" event on connect and after every change.
// @Tags         plans
// @Produce      text/event-stream
// @Security     CookieAuth
// @Success      200
// @Router       /plans/subscribe [get]
func (h *PlanHandler) Subscribe(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	ctx := c.Request.Context()

	// The stream outlives the server's WriteTimeout; without this the first
	// event written after the deadline kills the connection.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	var pokes <-chan struct{}
	if h.bus != nil {
		ch, stop := h.bus.SubscribePlans(ctx, userID)
		defer stop()
		pokes = ch
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	send := func() bool {
		list, err := h.svc.List(ctx, userID, "", "")
		if err != nil {
			return false
		}
		payload, err := json.Marshal(dto.ListPlansResponse{Items: plansToResponses(list, h.now())})
		if err != nil {
			return false
		}
		c.SSEvent("plans", string(payload))
		return true
	}

	// initial snapshot, then one snapshot per change notification
	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			return send()
		}
		if pokes == nil {
			<-ctx.Done()
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-pokes:
			if !ok {
				return false
			}
			return send()
		}
	})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func planToResponse(p dom.Plan, now time.Time) dto.PlanResponse {
	u := dom.DaysUrgency(p.EndDate, now)
	resp := dto.PlanResponse{
		ID:        p.ID,
		Title:     p.Title,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CreatedAt: p.CreatedAt,
		Actions:   make([]dto.ActionResponse, len(p.Actions)),
		Progress:  dom.PlanProgress(p),
		Urgency:   dto.UrgencyResponse{Label: u.Label, Severity: string(u.Severity), DaysLeft: u.DaysLeft},
		Counts:    dom.StatusCounts(p),
	}
	for i, a := range p.Actions {
		resp.Actions[i] = actionToResponse(a)
	}
	return resp
}

func actionToResponse(a dom.Action) dto.ActionResponse {
	out := dto.ActionResponse{
		ID:          a.ID,
		Title:       a.Title,
		Status:      string(a.Status),
		Description: a.Description,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		ActualDate:  a.ActualDate,
		ActualTime:  a.ActualTime,
		Duration:    dom.ActionDuration(a.StartTime, a.EndTime),
	}
	if v, ok := dom.ScheduleVariance(a.StartDate, a.EndDate, a.ActualDate); ok {
		out.Variance = &dto.VarianceResponse{
			PlannedDays: v.PlannedDays,
			ActualDays:  v.ActualDays,
			DeltaDays:   v.DeltaDays,
			Status:      string(v.Status),
		}
	}
	return out
}

func plansToResponses(list []dom.Plan, now time.Time) []dto.PlanResponse {
	out := make([]dto.PlanResponse, len(list))
	for i := range list {
		out[i] = planToResponse(list[i], now)
	}
	return out
}

func completedToResponses(list []dom.CompletedAction) []dto.CompletedActionResponse {
	out := make([]dto.CompletedActionResponse, len(list))
	for i, c := range list {
		out[i] = dto.CompletedActionResponse{
			ID:         c.ID,
			Title:      c.Title,
			PlanID:     c.PlanID,
			PlanTitle:  c.PlanTitle,
			StartDate:  c.StartDate,
			ActualDate: c.ActualDate,
			ActualTime: c.ActualTime,
			ActualDays: c.ActualDays(),
		}
	}
	return out
}

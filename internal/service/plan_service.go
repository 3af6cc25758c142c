package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/codewiththura/stratum-planner/internal/cache"
	dom "github.com/codewiththura/stratum-planner/internal/domain"
	"github.com/codewiththura/stratum-planner/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrDeadlineRequired = errors.New("deadline is required")
	ErrActionIndex      = errors.New("action index out of range")
)

// Publisher notifies live subscribers that a user's plan list changed.
type Publisher interface {
	PublishPlansChanged(ctx context.Context, userID int64) error
}

// PlanService owns plan CRUD, status cycling and the completed-action
// history. All derived values (progress, urgency, sorting) come from the
// domain package; this layer only validates, persists and invalidates.
type PlanService struct {
	repo   repo.PlanRepo
	cache  *cache.PlanCache
	events Publisher
	sf     singleflight.Group
	now    func() time.Time
}

// NewPlanService creates a PlanService. cache and events may be nil, which
// disables caching and live notifications respectively.
func NewPlanService(r repo.PlanRepo, c *cache.PlanCache, events Publisher) *PlanService {
	return &PlanService{repo: r, cache: c, events: events, now: time.Now}
}

// Create validates and persists a new plan for the user. Blank-titled
// actions are dropped before the write, missing action IDs and statuses are
// filled in.
func (s *PlanService) Create(ctx context.Context, ownerID int64, title, startDate, endDate string, actions []dom.Action) (dom.Plan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Plan{}, ErrTitleRequired
	}
	if strings.TrimSpace(endDate) == "" {
		return dom.Plan{}, ErrDeadlineRequired
	}
	if strings.TrimSpace(startDate) == "" {
		startDate = s.now().Format(dom.DateLayout)
	}

	p, err := s.repo.Create(ctx, dom.Plan{
		OwnerID:   ownerID,
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
		Actions:   normalizeActions(actions),
	})
	if err != nil {
		return dom.Plan{}, err
	}
	s.afterWrite(ctx, ownerID)
	return p, nil
}

// Get returns one plan owned by the user.
func (s *PlanService) Get(ctx context.Context, ownerID, id int64) (dom.Plan, error) {
	p, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Plan{}, ErrNotFound
		}
		return dom.Plan{}, err
	}
	return p, nil
}

// List returns the user's plans ordered by the given sort key and direction
// (domain.Sorter keys; empty key sorts by start date ascending).
func (s *PlanService) List(ctx context.Context, ownerID int64, sortKey, direction string) ([]dom.Plan, error) {
	list, err := s.listCached(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return dom.SortPlans(list, sortKey, direction), nil
}

// Update replaces the plan document: scalar fields and the whole actions
// array. Concurrent writers are last-write-wins at document granularity.
func (s *PlanService) Update(ctx context.Context, ownerID, id int64, title, startDate, endDate string, actions []dom.Action) (dom.Plan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Plan{}, ErrTitleRequired
	}
	if strings.TrimSpace(endDate) == "" {
		return dom.Plan{}, ErrDeadlineRequired
	}
	existing, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return dom.Plan{}, err
	}
	if strings.TrimSpace(startDate) == "" {
		startDate = existing.StartDate
	}

	p, err := s.repo.Update(ctx, ownerID, id, dom.Plan{
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
		Actions:   normalizeActions(actions),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Plan{}, ErrNotFound
		}
		return dom.Plan{}, err
	}
	s.afterWrite(ctx, ownerID)
	return p, nil
}

// CycleStatus advances one action through the status cycle and writes the
// actions array back (read-modify-write over the whole document).
func (s *PlanService) CycleStatus(ctx context.Context, ownerID, planID int64, actionIndex int) (dom.Plan, error) {
	p, err := s.Get(ctx, ownerID, planID)
	if err != nil {
		return dom.Plan{}, err
	}
	if actionIndex < 0 || actionIndex >= len(p.Actions) {
		return dom.Plan{}, ErrActionIndex
	}

	actions := make([]dom.Action, len(p.Actions))
	copy(actions, p.Actions)
	dom.CycleAction(&actions[actionIndex], s.now())

	updated, err := s.repo.UpdateActions(ctx, ownerID, planID, actions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Plan{}, ErrNotFound
		}
		return dom.Plan{}, err
	}
	s.afterWrite(ctx, ownerID)
	return updated, nil
}

// Delete destroys the plan as a whole; actions have no independent life.
func (s *PlanService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.afterWrite(ctx, ownerID)
	return nil
}

// History returns every finished action across the user's plans, flattened
// and ordered by the given key (actualDate default, actualDays) and
// direction.
func (s *PlanService) History(ctx context.Context, ownerID int64, sortKey, direction string) ([]dom.CompletedAction, error) {
	list, err := s.listCached(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return dom.SortCompletedActions(dom.CompletedActions(list), sortKey, direction), nil
}

func (s *PlanService) listCached(ctx context.Context, ownerID int64) ([]dom.Plan, error) {
	if s.cache == nil {
		return s.repo.List(ctx, ownerID)
	}
	key := "list:" + strconv.FormatInt(ownerID, 10)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, ownerID); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, ownerID, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Plan), nil
}

func (s *PlanService) afterWrite(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
	if s.events != nil {
		_ = s.events.PublishPlansChanged(ctx, ownerID)
	}
}

// normalizeActions drops actions without a title, trims the rest and fills
// in IDs and statuses the way the create form does.
func normalizeActions(actions []dom.Action) []dom.Action {
	out := make([]dom.Action, 0, len(actions))
	for _, a := range actions {
		a.Title = strings.TrimSpace(a.Title)
		if a.Title == "" {
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Status == "" {
			a.Status = dom.StatusNotStarted
		}
		out = append(out, a)
	}
	return out
}

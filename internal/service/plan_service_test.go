package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/codewiththura/stratum-planner/internal/domain"

	"github.com/jackc/pgx/v5"
)

// fakePlanRepo is an in-memory PlanRepo for service tests.
type fakePlanRepo struct {
	nextID int64
	plans  map[int64]dom.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{nextID: 1, plans: map[int64]dom.Plan{}}
}

func (f *fakePlanRepo) Create(_ context.Context, p dom.Plan) (dom.Plan, error) {
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	f.plans[p.ID] = p
	return p, nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, ownerID, id int64) (dom.Plan, error) {
	p, ok := f.plans[id]
	if !ok || p.OwnerID != ownerID {
		return dom.Plan{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakePlanRepo) List(_ context.Context, ownerID int64) ([]dom.Plan, error) {
	var out []dom.Plan
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.plans[id]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) Update(_ context.Context, ownerID, id int64, p dom.Plan) (dom.Plan, error) {
	existing, ok := f.plans[id]
	if !ok || existing.OwnerID != ownerID {
		return dom.Plan{}, pgx.ErrNoRows
	}
	existing.Title = p.Title
	existing.StartDate = p.StartDate
	existing.EndDate = p.EndDate
	existing.Actions = p.Actions
	f.plans[id] = existing
	return existing, nil
}

func (f *fakePlanRepo) UpdateActions(_ context.Context, ownerID, id int64, actions []dom.Action) (dom.Plan, error) {
	existing, ok := f.plans[id]
	if !ok || existing.OwnerID != ownerID {
		return dom.Plan{}, pgx.ErrNoRows
	}
	existing.Actions = actions
	f.plans[id] = existing
	return existing, nil
}

func (f *fakePlanRepo) Delete(_ context.Context, ownerID, id int64) error {
	if p, ok := f.plans[id]; ok && p.OwnerID == ownerID {
		delete(f.plans, id)
	}
	return nil
}

func newTestService(t *testing.T) (*PlanService, *fakePlanRepo) {
	t.Helper()
	repo := newFakePlanRepo()
	svc := NewPlanService(repo, nil, nil)
	return svc, repo
}

func TestCreateRequiresTitleAndDeadline(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "  ", "2026-01-01", "2026-01-07", nil); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("missing title: err = %v, want ErrTitleRequired", err)
	}
	if _, err := svc.Create(ctx, 1, "Ship v1", "2026-01-01", "", nil); !errors.Is(err, ErrDeadlineRequired) {
		t.Errorf("missing deadline: err = %v, want ErrDeadlineRequired", err)
	}
}

func TestCreateNormalizesActions(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) }

	p, err := svc.Create(context.Background(), 1, "Ship v1", "", "2026-01-07", []dom.Action{
		{Title: "  write docs  "},
		{Title: ""},        // blank: dropped before save
		{Title: "   "},     // whitespace only: dropped
		{ID: "keep-me", Title: "review", Status: dom.StatusPending},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.StartDate != "2026-01-05" {
		t.Errorf("StartDate = %q, want today", p.StartDate)
	}
	if len(p.Actions) != 2 {
		t.Fatalf("len(Actions) = %d, want 2", len(p.Actions))
	}
	if p.Actions[0].Title != "write docs" {
		t.Errorf("Actions[0].Title = %q, want trimmed", p.Actions[0].Title)
	}
	if p.Actions[0].ID == "" {
		t.Error("Actions[0].ID not assigned")
	}
	if p.Actions[0].Status != dom.StatusNotStarted {
		t.Errorf("Actions[0].Status = %q, want not_started", p.Actions[0].Status)
	}
	if p.Actions[1].ID != "keep-me" || p.Actions[1].Status != dom.StatusPending {
		t.Errorf("existing ID/status not preserved: %+v", p.Actions[1])
	}
}

func TestCycleStatusStampsAndClears(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Date(2026, 2, 1, 18, 45, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, "Ship v1", "2026-01-01", "2026-02-07", []dom.Action{
		{Title: "deploy", Status: dom.StatusPending},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// pending -> finished stamps the completion instant
	p, err = svc.CycleStatus(ctx, 1, p.ID, 0)
	if err != nil {
		t.Fatalf("CycleStatus: %v", err)
	}
	a := p.Actions[0]
	if a.Status != dom.StatusFinished || a.ActualDate != "2026-02-01" || a.ActualTime != "18:45" {
		t.Errorf("after finish: %+v", a)
	}

	// finished -> canceled -> not_started clears it
	if p, err = svc.CycleStatus(ctx, 1, p.ID, 0); err != nil {
		t.Fatalf("CycleStatus: %v", err)
	}
	if p, err = svc.CycleStatus(ctx, 1, p.ID, 0); err != nil {
		t.Fatalf("CycleStatus: %v", err)
	}
	a = p.Actions[0]
	if a.Status != dom.StatusNotStarted || a.ActualDate != "" || a.ActualTime != "" {
		t.Errorf("after reset: %+v", a)
	}
}

func TestCycleStatusIndexOutOfRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, 1, "Ship v1", "2026-01-01", "2026-02-07", []dom.Action{{Title: "one"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.CycleStatus(ctx, 1, p.ID, 1); !errors.Is(err, ErrActionIndex) {
		t.Errorf("err = %v, want ErrActionIndex", err)
	}
	if _, err := svc.CycleStatus(ctx, 1, p.ID, -1); !errors.Is(err, ErrActionIndex) {
		t.Errorf("err = %v, want ErrActionIndex", err)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, 1, "Mine", "2026-01-01", "2026-02-07", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Get(ctx, 2, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign owner: err = %v, want ErrNotFound", err)
	}
}

func TestListSortsPlans(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, 1, "B", "2026-03-01", "2026-03-07", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 1, "A", "2026-01-01", "2026-01-07", nil); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, 1, dom.SortByStartDate, dom.SortAsc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Title != "A" || list[1].Title != "B" {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestHistoryFlattensAndSorts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "Launch", "2026-01-01", "2026-01-31", []dom.Action{
		{Title: "ship", Status: dom.StatusFinished, ActualDate: "2026-01-20", ActualTime: "12:00"},
		{Title: "wip", Status: dom.StatusPending},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, 1, "Hire", "2026-01-05", "2026-02-28", []dom.Action{
		{Title: "offer", Status: dom.StatusFinished, ActualDate: "2026-01-10"},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.History(ctx, 1, dom.SortByActualDate, dom.SortAsc)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "offer" || got[0].PlanTitle != "Hire" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Title != "ship" || got[1].PlanTitle != "Launch" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

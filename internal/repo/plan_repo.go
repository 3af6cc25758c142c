package repo

import (
	"context"
	"encoding/json"
	"fmt"

	dom "github.com/codewiththura/stratum-planner/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanRepo provides plan persistence. A plan row carries the whole document:
// scalar fields plus the ordered actions array as JSONB, so an update always
// replaces the full action list (last-write-wins at document granularity).
type PlanRepo interface {
	Create(ctx context.Context, p dom.Plan) (dom.Plan, error)
	GetByID(ctx context.Context, ownerID, id int64) (dom.Plan, error)
	List(ctx context.Context, ownerID int64) ([]dom.Plan, error)
	Update(ctx context.Context, ownerID, id int64, p dom.Plan) (dom.Plan, error)
	UpdateActions(ctx context.Context, ownerID, id int64, actions []dom.Action) (dom.Plan, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// PGPlanRepo implements PlanRepo with Postgres.
type PGPlanRepo struct {
	db *pgxpool.Pool
}

// NewPGPlanRepo returns a new PGPlanRepo.
func NewPGPlanRepo(db *pgxpool.Pool) *PGPlanRepo {
	return &PGPlanRepo{db: db}
}

const planColumns = `id, owner_id, title, start_date, end_date, actions, created_at`

func (r *PGPlanRepo) Create(ctx context.Context, p dom.Plan) (dom.Plan, error) {
	actions, err := marshalActions(p.Actions)
	if err != nil {
		return dom.Plan{}, err
	}
	query := `
		INSERT INTO plans (owner_id, title, start_date, end_date, actions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + planColumns
	return r.scanPlan(r.db.QueryRow(ctx, query, p.OwnerID, p.Title, p.StartDate, p.EndDate, actions))
}

func (r *PGPlanRepo) GetByID(ctx context.Context, ownerID, id int64) (dom.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE owner_id = $1 AND id = $2`
	return r.scanPlan(r.db.QueryRow(ctx, query, ownerID, id))
}

func (r *PGPlanRepo) List(ctx context.Context, ownerID int64) ([]dom.Plan, error) {
	query := `
		SELECT ` + planColumns + ` FROM plans
		WHERE owner_id = $1 ORDER BY start_date ASC, created_at ASC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Plan
	for rows.Next() {
		p, err := r.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGPlanRepo) Update(ctx context.Context, ownerID, id int64, p dom.Plan) (dom.Plan, error) {
	actions, err := marshalActions(p.Actions)
	if err != nil {
		return dom.Plan{}, err
	}
	query := `
		UPDATE plans SET title = $3, start_date = $4, end_date = $5, actions = $6, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + planColumns
	return r.scanPlan(r.db.QueryRow(ctx, query, ownerID, id, p.Title, p.StartDate, p.EndDate, actions))
}

func (r *PGPlanRepo) UpdateActions(ctx context.Context, ownerID, id int64, actions []dom.Action) (dom.Plan, error) {
	raw, err := marshalActions(actions)
	if err != nil {
		return dom.Plan{}, err
	}
	query := `
		UPDATE plans SET actions = $3, updated_at = NOW()
		WHERE owner_id = $1 AND id = $2
		RETURNING ` + planColumns
	return r.scanPlan(r.db.QueryRow(ctx, query, ownerID, id, raw))
}

func (r *PGPlanRepo) Delete(ctx context.Context, ownerID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM plans WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGPlanRepo) scanPlan(row rowScanner) (dom.Plan, error) {
	var p dom.Plan
	var raw []byte
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.StartDate, &p.EndDate, &raw, &p.CreatedAt); err != nil {
		return dom.Plan{}, err
	}
	if err := json.Unmarshal(raw, &p.Actions); err != nil {
		return dom.Plan{}, fmt.Errorf("decode actions: %w", err)
	}
	return p, nil
}

func marshalActions(actions []dom.Action) ([]byte, error) {
	if actions == nil {
		actions = []dom.Action{}
	}
	b, err := json.Marshal(actions)
	if err != nil {
		return nil, fmt.Errorf("encode actions: %w", err)
	}
	return b, nil
}

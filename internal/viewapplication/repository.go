package viewapplication

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/db"
	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, app *Application) (*Application, error)
	ListByProject(ctx context.Context, projectID int64) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, app *Application) (*Application, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(app).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "project_view_applications", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	return app, nil
}

func (r *repository) ListByProject(ctx context.Context, projectID int64) ([]Application, error) {
	start := time.Now()
	apps := []Application{}
	err := r.db.NewSelect().
		Model(&apps).
		Where("va.project_id = ?", projectID).
		Order("va.applied_at DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "project_view_applications", time.Since(start), err)

	return apps, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	start := time.Now()
	app := &Application{}
	err := r.db.NewUpdate().
		Model(app).
		Set("status = ?", status).
		Where("va.id = ?", id).
		Returning("*").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "project_view_applications", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

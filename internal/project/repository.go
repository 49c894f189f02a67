package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	GetAll(ctx context.Context) ([]Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	GetByAdmin(ctx context.Context, adminID string) ([]Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
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

func (r *repository) Create(ctx context.Context, project *Project) (*Project, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(project).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "projects", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Project, error) {
	start := time.Now()
	projects := make([]Project, 0)
	err := r.db.NewSelect().Model(&projects).Order("p.created_at DESC", "p.id DESC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	return projects, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	start := time.Now()
	project := new(Project)
	err := r.db.NewSelect().Model(project).Where("p.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *repository) GetByAdmin(ctx context.Context, adminID string) ([]Project, error) {
	start := time.Now()
	projects := make([]Project, 0)
	err := r.db.NewSelect().
		Model(&projects).
		Where("p.admin_id = ?", adminID).
		Order("p.created_at DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	return projects, err
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().Model((*Project)(nil)).Where("p.id = ?", id).Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	return exists, err
}

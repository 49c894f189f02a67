package insights

import (
	"context"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/joinrequest"
	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/uptrace/bun"
)

// Repository runs the aggregation queries. Every query reads join_requests and
// outer-joins the referenced rows, so dangling ids come back with NULL details.
type Repository interface {
	CountByStatus(ctx context.Context) ([]statusCount, error)
	ProjectCounts(ctx context.Context) ([]projectRow, error)
	AcceptedByUser(ctx context.Context, limit int) ([]collaboratorRow, error)
	DailyCounts(ctx context.Context, from, to time.Time) ([]DayBucket, error)
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

const (
	countAccepted = "count(*) FILTER (WHERE jr.status = 'accepted') AS accepted"
	countRejected = "count(*) FILTER (WHERE jr.status = 'rejected') AS rejected"
	countPending  = "count(*) FILTER (WHERE jr.status = 'pending') AS pending"
)

func (r *repository) CountByStatus(ctx context.Context) ([]statusCount, error) {
	start := time.Now()
	var rows []statusCount
	err := r.db.NewSelect().
		Model((*joinrequest.JoinRequest)(nil)).
		ColumnExpr("jr.status AS status, count(*) AS count").
		GroupExpr("jr.status").
		Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "aggregate", "join_requests", time.Since(start), err)

	return rows, err
}

// ProjectCounts returns one row per referenced project id in ascending id order.
func (r *repository) ProjectCounts(ctx context.Context) ([]projectRow, error) {
	start := time.Now()
	var rows []projectRow
	err := r.db.NewSelect().
		Model((*joinrequest.JoinRequest)(nil)).
		ColumnExpr("jr.project_id, p.id AS project_ref_id").
		ColumnExpr("p.admin_name, p.department, p.domain").
		ColumnExpr("count(*) AS total").
		ColumnExpr(countAccepted).
		ColumnExpr(countRejected).
		ColumnExpr(countPending).
		Join("LEFT JOIN projects AS p ON p.id = jr.project_id").
		GroupExpr("jr.project_id, p.id").
		OrderExpr("jr.project_id ASC").
		Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "aggregate", "join_requests", time.Since(start), err)

	return rows, err
}

// AcceptedByUser ranks users by accepted requests, ties broken by user id.
func (r *repository) AcceptedByUser(ctx context.Context, limit int) ([]collaboratorRow, error) {
	start := time.Now()
	var rows []collaboratorRow
	err := r.db.NewSelect().
		Model((*joinrequest.JoinRequest)(nil)).
		ColumnExpr("jr.user_id, u.id AS user_ref_id").
		ColumnExpr("u.name, u.email, u.department, u.reg_no").
		ColumnExpr("count(*) AS accepted_count").
		Join("LEFT JOIN users AS u ON u.id = jr.user_id").
		Where("jr.status = ?", joinrequest.StatusAccepted).
		GroupExpr("jr.user_id, u.id").
		OrderExpr("accepted_count DESC, jr.user_id ASC").
		Limit(limit).
		Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "aggregate", "join_requests", time.Since(start), err)

	return rows, err
}

// DailyCounts buckets requests made in [from, to] by UTC date, oldest first.
// Days without requests are absent.
func (r *repository) DailyCounts(ctx context.Context, from, to time.Time) ([]DayBucket, error) {
	start := time.Now()
	var rows []DayBucket
	err := r.db.NewSelect().
		Model((*joinrequest.JoinRequest)(nil)).
		ColumnExpr("to_char(jr.requested_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day").
		ColumnExpr("count(*) AS total").
		ColumnExpr(countAccepted).
		ColumnExpr(countRejected).
		ColumnExpr(countPending).
		Where("jr.requested_at >= ?", from).
		Where("jr.requested_at <= ?", to).
		GroupExpr("day").
		OrderExpr("day ASC").
		Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "aggregate", "join_requests", time.Since(start), err)

	return rows, err
}

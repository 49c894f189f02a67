package joinrequest

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
	ExistsActive(ctx context.Context, projectID, userID int64) (bool, error)
	Create(ctx context.Context, jr *JoinRequest) (*JoinRequest, error)
	GetByID(ctx context.Context, id int64) (*JoinRequest, error)
	// UpdateResponse applies the response only while the request is pending or
	// already holds the same status. An empty message keeps the stored one.
	// ErrJoinRequestNotFound means no row matched.
	UpdateResponse(ctx context.Context, id int64, status Status, at time.Time, message *string) (*JoinRequest, error)
	GetResolved(ctx context.Context, id int64) (*Resolved, error)
	ListResolved(ctx context.Context, userID int64) ([]Resolved, error)
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

func (r *repository) ExistsActive(ctx context.Context, projectID, userID int64) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*JoinRequest)(nil)).
		Where("jr.project_id = ?", projectID).
		Where("jr.user_id = ?", userID).
		Where("jr.status IN (?)", bun.In([]Status{StatusPending, StatusAccepted})).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "join_requests", time.Since(start), err)

	return exists, err
}

func (r *repository) Create(ctx context.Context, jr *JoinRequest) (*JoinRequest, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(jr).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "join_requests", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}
	return jr, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*JoinRequest, error) {
	start := time.Now()
	jr := new(JoinRequest)
	err := r.db.NewSelect().Model(jr).Where("jr.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "join_requests", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, err
	}
	return jr, nil
}

func (r *repository) UpdateResponse(ctx context.Context, id int64, status Status, at time.Time, message *string) (*JoinRequest, error) {
	start := time.Now()
	jr := new(JoinRequest)
	q := r.db.NewUpdate().
		Model(jr).
		Set("status = ?", status).
		Set("responded_at = ?", at).
		Where("jr.id = ?", id).
		Where("jr.status IN (?)", bun.In([]Status{StatusPending, status})).
		Returning("*")
	if message != nil && *message != "" {
		q = q.Set("response_message = ?", *message)
	}
	_, err := q.Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "join_requests", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJoinRequestNotFound
		}
		return nil, err
	}
	if jr.ID == 0 {
		return nil, ErrJoinRequestNotFound
	}
	return jr, nil
}

// resolvedRow is one join request with outer-joined display columns.
// NULL display columns mean the referenced project or user no longer exists.
type resolvedRow struct {
	ID              int64      `bun:"id"`
	ProjectID       int64      `bun:"project_id"`
	UserID          int64      `bun:"user_id"`
	Status          Status     `bun:"status"`
	Message         string     `bun:"message"`
	ResponseMessage string     `bun:"response_message"`
	RequestedAt     time.Time  `bun:"requested_at"`
	RespondedAt     *time.Time `bun:"responded_at"`

	ProjectRefID       *int64     `bun:"project_ref_id"`
	ProjectAdminName   *string    `bun:"project_admin_name"`
	ProjectDepartment  *string    `bun:"project_department"`
	ProjectBranch      *string    `bun:"project_branch"`
	ProjectDomain      *string    `bun:"project_domain"`
	ProjectDescription *string    `bun:"project_description"`
	ProjectStartDate   *time.Time `bun:"project_start_date"`
	ProjectEndDate     *time.Time `bun:"project_end_date"`

	UserRefID      *int64  `bun:"user_ref_id"`
	UserName       *string `bun:"user_name"`
	UserEmail      *string `bun:"user_email"`
	UserDepartment *string `bun:"user_department"`
	UserRegNo      *int64  `bun:"user_reg_no"`
}

func (r *repository) resolvedQuery() *bun.SelectQuery {
	return r.db.NewSelect().
		Model((*JoinRequest)(nil)).
		ColumnExpr("jr.id, jr.project_id, jr.user_id, jr.status, jr.message, jr.response_message, jr.requested_at, jr.responded_at").
		ColumnExpr("p.id AS project_ref_id, p.admin_name AS project_admin_name, p.department AS project_department").
		ColumnExpr("p.branch AS project_branch, p.domain AS project_domain, p.project_description AS project_description").
		ColumnExpr("p.start_date AS project_start_date, p.end_date AS project_end_date").
		ColumnExpr("u.id AS user_ref_id, u.name AS user_name, u.email AS user_email").
		ColumnExpr("u.department AS user_department, u.reg_no AS user_reg_no").
		Join("LEFT JOIN projects AS p ON p.id = jr.project_id").
		Join("LEFT JOIN users AS u ON u.id = jr.user_id")
}

func (r *repository) GetResolved(ctx context.Context, id int64) (*Resolved, error) {
	start := time.Now()
	var rows []resolvedRow
	err := r.resolvedQuery().Where("jr.id = ?", id).Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "select", "join_requests", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrJoinRequestNotFound
	}
	resolved := rows[0].resolve()
	return &resolved, nil
}

// ListResolved returns requests newest first. userID 0 lists every request.
func (r *repository) ListResolved(ctx context.Context, userID int64) ([]Resolved, error) {
	start := time.Now()
	var rows []resolvedRow
	q := r.resolvedQuery()
	if userID > 0 {
		q = q.Where("jr.user_id = ?", userID)
	}
	err := q.OrderExpr("jr.requested_at DESC, jr.id DESC").Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "select", "join_requests", time.Since(start), err)

	if err != nil {
		return nil, err
	}

	out := make([]Resolved, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.resolve())
	}
	return out, nil
}

func (row resolvedRow) resolve() Resolved {
	res := Resolved{
		JoinRequest: JoinRequest{
			ID:              row.ID,
			ProjectID:       row.ProjectID,
			UserID:          row.UserID,
			Status:          row.Status,
			Message:         row.Message,
			ResponseMessage: row.ResponseMessage,
			RequestedAt:     row.RequestedAt,
			RespondedAt:     row.RespondedAt,
		},
		Project: ProjectInfo{ID: row.ProjectID, AdminName: UnknownProject},
		User:    UserInfo{ID: row.UserID, Name: UnknownUser},
	}

	if row.ProjectRefID != nil {
		res.Project = ProjectInfo{
			ID:                 row.ProjectID,
			Found:              true,
			AdminName:          deref(row.ProjectAdminName),
			Department:         deref(row.ProjectDepartment),
			Branch:             deref(row.ProjectBranch),
			Domain:             deref(row.ProjectDomain),
			ProjectDescription: deref(row.ProjectDescription),
			StartDate:          row.ProjectStartDate,
			EndDate:            row.ProjectEndDate,
		}
	}

	if row.UserRefID != nil {
		res.User = UserInfo{
			ID:         row.UserID,
			Found:      true,
			Name:       deref(row.UserName),
			Email:      deref(row.UserEmail),
			Department: deref(row.UserDepartment),
		}
		if row.UserRegNo != nil {
			res.User.RegNo = *row.UserRegNo
		}
	}

	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

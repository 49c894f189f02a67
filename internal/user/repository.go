package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/db"
	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetAll(ctx context.Context, role Role) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmailOrRegNo(ctx context.Context, email string, regNo int64) (bool, error)
	SearchByName(ctx context.Context, name string) ([]User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateSettings(ctx context.Context, id int64, settings map[string]interface{}) (*User, error)
	Delete(ctx context.Context, id int64) error
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

func (r *repository) Create(ctx context.Context, user *User) (*User, error) {
	start := time.Now()
	user.applyDefaults()
	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "users", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) GetAll(ctx context.Context, role Role) ([]User, error) {
	start := time.Now()
	users := make([]User, 0)
	q := r.db.NewSelect().Model(&users).Order("u.id ASC")
	if role != "" {
		q = q.Where("u.role = ?", role)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	return users, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	start := time.Now()
	user := new(User)
	err := r.db.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	start := time.Now()
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.email = ?", email).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *repository) ExistsByEmailOrRegNo(ctx context.Context, email string, regNo int64) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		WhereOr("u.email = ?", email).
		WhereOr("u.reg_no = ?", regNo).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	return exists, err
}

func (r *repository) SearchByName(ctx context.Context, name string) ([]User, error) {
	start := time.Now()
	users := make([]User, 0)
	err := r.db.NewSelect().
		Model(&users).
		Where("u.name ILIKE ?", "%"+name+"%").
		Order("u.name ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	return users, err
}

func (r *repository) Update(ctx context.Context, user *User) error {
	start := time.Now()
	user.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(user).
		Column("reg_no", "name", "email", "age", "gender", "department", "role", "max_books_allowed", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "users", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return err
	}
	return requireRow(result)
}

func (r *repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("password = ?", hash).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "users", time.Since(start), err)

	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *repository) UpdateSettings(ctx context.Context, id int64, settings map[string]interface{}) (*User, error) {
	start := time.Now()
	if settings == nil {
		settings = map[string]interface{}{}
	}
	user := &User{ID: id, Settings: settings, UpdatedAt: time.Now()}
	result, err := r.db.NewUpdate().
		Model(user).
		Column("settings", "updated_at").
		WherePK().
		Returning("*").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "users", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := r.db.NewDelete().Model(&User{ID: id}).WherePK().Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "users", time.Since(start), err)

	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

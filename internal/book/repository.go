package book

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
	Create(ctx context.Context, book *Book) (*Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	GetByBookID(ctx context.Context, bookID int64) (*Book, error)
	Update(ctx context.Context, book *Book) error
	DeleteByBookID(ctx context.Context, bookID int64) error
	SearchByTitle(ctx context.Context, title string) ([]Book, error)
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

func (r *repository) Create(ctx context.Context, book *Book) (*Book, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(book).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "books", time.Since(start), err)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrBookExists
		}
		return nil, err
	}
	return book, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Book, error) {
	start := time.Now()
	books := make([]Book, 0)
	err := r.db.NewSelect().Model(&books).Order("b.book_id ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "books", time.Since(start), err)

	return books, err
}

func (r *repository) GetByBookID(ctx context.Context, bookID int64) (*Book, error) {
	start := time.Now()
	book := new(Book)
	err := r.db.NewSelect().Model(book).Where("b.book_id = ?", bookID).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "books", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (r *repository) Update(ctx context.Context, book *Book) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(book).
		Column("title", "author", "genre", "publication_year", "available_copies").
		Where("b.book_id = ?", book.BookID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "books", time.Since(start), err)

	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *repository) DeleteByBookID(ctx context.Context, bookID int64) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Book)(nil)).
		Where("book_id = ?", bookID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", "books", time.Since(start), err)

	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *repository) SearchByTitle(ctx context.Context, title string) ([]Book, error) {
	start := time.Now()
	books := make([]Book, 0)
	err := r.db.NewSelect().
		Model(&books).
		Where("b.title ILIKE ?", "%"+title+"%").
		Order("b.title ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "books", time.Since(start), err)

	return books, err
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookNotFound
	}
	return nil
}

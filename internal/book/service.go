package book

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrBookExists   = errors.New("a book with this bookId already exists")
	ErrInvalidInput = errors.New("invalid input")
)

type Service interface {
	CreateBook(ctx context.Context, req CreateRequest) (*Book, error)
	GetAllBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, bookID int64) (*Book, error)
	ReplaceBook(ctx context.Context, bookID int64, req CreateRequest) (*Book, error)
	PatchBook(ctx context.Context, bookID int64, req PatchRequest) (*Book, error)
	DeleteBook(ctx context.Context, bookID int64) error
	SearchByTitle(ctx context.Context, title string) ([]Book, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBook(ctx context.Context, req CreateRequest) (*Book, error) {
	return s.repo.Create(ctx, &Book{
		BookID:          req.BookID,
		Title:           req.Title,
		Author:          req.Author,
		Genre:           req.Genre,
		PublicationYear: req.PublicationYear,
		AvailableCopies: *req.AvailableCopies,
	})
}

func (s *service) GetAllBooks(ctx context.Context) ([]Book, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	return s.repo.GetByBookID(ctx, bookID)
}

// ReplaceBook overwrites every mutable field. A body bookId that differs from the path is rejected.
func (s *service) ReplaceBook(ctx context.Context, bookID int64, req CreateRequest) (*Book, error) {
	if req.BookID != bookID {
		return nil, ErrInvalidInput
	}
	existing, err := s.repo.GetByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	existing.Title = req.Title
	existing.Author = req.Author
	existing.Genre = req.Genre
	existing.PublicationYear = req.PublicationYear
	existing.AvailableCopies = *req.AvailableCopies

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) PatchBook(ctx context.Context, bookID int64, req PatchRequest) (*Book, error) {
	existing, err := s.repo.GetByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Author != nil {
		existing.Author = *req.Author
	}
	if req.Genre != nil {
		existing.Genre = *req.Genre
	}
	if req.PublicationYear != nil {
		existing.PublicationYear = *req.PublicationYear
	}
	if req.AvailableCopies != nil {
		existing.AvailableCopies = *req.AvailableCopies
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) DeleteBook(ctx context.Context, bookID int64) error {
	return s.repo.DeleteByBookID(ctx, bookID)
}

func (s *service) SearchByTitle(ctx context.Context, title string) ([]Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.SearchByTitle(ctx, title)
}

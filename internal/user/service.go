package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists with this email or registration number")
	ErrInvalidInput = errors.New("invalid input")
)

type Service interface {
	CreateUser(ctx context.Context, req CreateRequest) (*User, error)
	GetAllUsers(ctx context.Context, role Role) ([]User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	UpdateUser(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	PatchUser(ctx context.Context, id int64, req PatchRequest) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, name string) ([]User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// HashPassword hashes a plain password with the bcrypt default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *service) CreateUser(ctx context.Context, req CreateRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.repo.ExistsByEmailOrRegNo(ctx, email, req.RegNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &User{
		RegNo:      req.RegNo,
		Name:       req.Name,
		Email:      email,
		Password:   hashed,
		Age:        req.Age,
		Gender:     req.Gender,
		Department: req.Department,
		Role:       req.Role,
	})
}

func (s *service) GetAllUsers(ctx context.Context, role Role) ([]User, error) {
	if role != "" && role != RoleUser && role != RoleAdmin {
		return nil, ErrInvalidInput
	}
	return s.repo.GetAll(ctx, role)
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	existing, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.RegNo = req.RegNo
	existing.Name = req.Name
	existing.Email = strings.ToLower(strings.TrimSpace(req.Email))
	existing.Age = req.Age
	existing.Gender = req.Gender
	existing.Department = req.Department
	if req.Role != "" {
		existing.Role = req.Role
	}
	if req.MaxBooksAllowed > 0 {
		existing.MaxBooksAllowed = req.MaxBooksAllowed
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) PatchUser(ctx context.Context, id int64, req PatchRequest) (*User, error) {
	existing, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RegNo != nil {
		existing.RegNo = *req.RegNo
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Email != nil {
		existing.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Age != nil {
		existing.Age = *req.Age
	}
	if req.Gender != nil {
		existing.Gender = *req.Gender
	}
	if req.Department != nil {
		existing.Department = *req.Department
	}
	if req.Role != nil {
		existing.Role = *req.Role
	}
	if req.MaxBooksAllowed != nil {
		existing.MaxBooksAllowed = *req.MaxBooksAllowed
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) SearchByName(ctx context.Context, name string) ([]User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.SearchByName(ctx, name)
}

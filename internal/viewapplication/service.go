package viewapplication

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("you have already applied to this project")
	ErrInvalidStatus       = errors.New("invalid status")
)

type ProjectLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Apply(ctx context.Context, projectID int64, req ApplyRequest) (*Application, error)
	ListForProject(ctx context.Context, projectID int64) ([]Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Application, error)
}

type service struct {
	repo     Repository
	projects ProjectLookup
}

func NewService(repo Repository, projects ProjectLookup) Service {
	return &service{
		repo:     repo,
		projects: projects,
	}
}

func (s *service) Apply(ctx context.Context, projectID int64, req ApplyRequest) (*Application, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &Application{
		ProjectID:  projectID,
		Name:       strings.TrimSpace(req.Name),
		Department: req.Department,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Role:       req.Role,
		Github:     req.Github,
		Linkedin:   req.Linkedin,
		Experience: req.Experience,
		Status:     StatusPending,
	})
}

func (s *service) ListForProject(ctx context.Context, projectID int64) ([]Application, error) {
	if err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, projectID)
}

// UpdateStatus moves an application to any of the five statuses; there is no transition rule.
func (s *service) UpdateStatus(ctx context.Context, id int64, raw string) (*Application, error) {
	status := Status(raw)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) requireProject(ctx context.Context, projectID int64) error {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return fmt.Errorf("lookup project: %w", err)
	}
	if !exists {
		return ErrProjectNotFound
	}
	return nil
}

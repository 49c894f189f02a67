package project

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/user"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// PosterLookup resolves the display name of the user posting a project.
type PosterLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service interface {
	CreateProject(ctx context.Context, posterID int64, req CreateRequest) (*Project, error)
	GetAllProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	GetProjectsByPoster(ctx context.Context, posterID int64) ([]Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type service struct {
	repo    Repository
	posters PosterLookup
	now     func() time.Time
}

func NewService(repo Repository, posters PosterLookup) Service {
	return &service{
		repo:    repo,
		posters: posters,
		now:     time.Now,
	}
}

// AdminIDFor is the adminId stored for projects posted by userID.
func AdminIDFor(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *service) CreateProject(ctx context.Context, posterID int64, req CreateRequest) (*Project, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	p := &Project{
		AdminID:            DefaultAdminID,
		AdminName:          DefaultAdminName,
		Department:         req.Department,
		Branch:             req.Branch,
		Domain:             req.Domain,
		SkillsNeeded:       req.SkillsNeeded,
		ProjectDescription: req.ProjectDescription,
		Competitions:       req.Competitions,
		StartDate:          s.now().UTC(),
		EndDate:            req.EndDate,
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}

	if posterID > 0 {
		poster, err := s.posters.GetByID(ctx, posterID)
		if err != nil {
			return nil, fmt.Errorf("resolve poster: %w", err)
		}
		p.AdminID = AdminIDFor(poster.ID)
		if poster.Name != "" {
			p.AdminName = poster.Name
		}
	}

	return s.repo.Create(ctx, p)
}

func (s *service) GetAllProjects(ctx context.Context) ([]Project, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetProject(ctx context.Context, id int64) (*Project, error) {
	if id <= 0 {
		return nil, ErrProjectNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetProjectsByPoster(ctx context.Context, posterID int64) ([]Project, error) {
	return s.repo.GetByAdmin(ctx, AdminIDFor(posterID))
}

func (s *service) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

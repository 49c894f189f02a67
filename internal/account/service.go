package account

import (
	"context"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/joinrequest"
	"github.com/nagumeena22/ColabSphere/internal/project"
	"github.com/nagumeena22/ColabSphere/internal/user"
)

const ExportVersion = "1.0"

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	UpdateSettings(ctx context.Context, id int64, settings map[string]interface{}) (*user.User, error)
}

type ProjectSource interface {
	GetProjectsByPoster(ctx context.Context, posterID int64) ([]project.Project, error)
}

type RequestSource interface {
	ListForUser(ctx context.Context, userID int64) ([]joinrequest.Resolved, error)
}

// Profile is the flat view served at /profile.
type Profile struct {
	ID              int64               `json:"id"`
	RegNo           int64               `json:"regNo"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Age             int                 `json:"age"`
	Gender          string              `json:"gender"`
	Department      string              `json:"department"`
	Role            user.Role           `json:"role"`
	ActiveBooks     []user.ActiveBook   `json:"activeBooks"`
	BookHistory     []user.ReturnedBook `json:"bookHistory"`
	MaxBooksAllowed int                 `json:"maxBooksAllowed"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// Export is everything the platform stores about one user.
type Export struct {
	User         *user.User             `json:"user"`
	Projects     []project.Project      `json:"projects"`
	JoinRequests []joinrequest.Resolved `json:"joinRequests"`
	ExportedAt   time.Time              `json:"exportedAt"`
	Version      string                 `json:"version"`
}

type Service struct {
	users    UserStore
	projects ProjectSource
	requests RequestSource
	now      func() time.Time
}

func NewService(users UserStore, projects ProjectSource, requests RequestSource) *Service {
	return &Service{
		users:    users,
		projects: projects,
		requests: requests,
		now:      time.Now,
	}
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:              u.ID,
		RegNo:           u.RegNo,
		Name:            u.Name,
		Email:           u.Email,
		Age:             u.Age,
		Gender:          u.Gender,
		Department:      u.Department,
		Role:            u.Role,
		ActiveBooks:     u.ActiveBooks,
		BookHistory:     u.BookHistory,
		MaxBooksAllowed: u.MaxBooksAllowed,
		CreatedAt:       u.CreatedAt,
	}, nil
}

// SaveSettings replaces the stored settings object.
func (s *Service) SaveSettings(ctx context.Context, userID int64, settings map[string]interface{}) (*user.User, error) {
	return s.users.UpdateSettings(ctx, userID, settings)
}

func (s *Service) ExportData(ctx context.Context, userID int64) (*Export, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.GetProjectsByPoster(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.requests.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Export{
		User:         u,
		Projects:     projects,
		JoinRequests: requests,
		ExportedAt:   s.now().UTC(),
		Version:      ExportVersion,
	}, nil
}

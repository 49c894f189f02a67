package project

import (
	"context"
	"testing"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, p *Project) (*Project, error) {
	args := m.Called(ctx, p)
	if fn, ok := args.Get(0).(func(context.Context, *Project) *Project); ok {
		return fn(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *mockRepository) GetAll(ctx context.Context) ([]Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Project), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *mockRepository) GetByAdmin(ctx context.Context, adminID string) ([]Project, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).([]Project), args.Error(1)
}

func (m *mockRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type stubPosters map[int64]*user.User

func (s stubPosters) GetByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func TestService_CreateProject(t *testing.T) {
	ctx := context.Background()
	posters := stubPosters{12: {ID: 12, Name: "Priya"}}
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("PosterBecomesAdmin", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, posters).(*service)
		svc.now = func() time.Time { return fixed }

		repo.On("Create", ctx, mock.AnythingOfType("*project.Project")).
			Return(func(_ context.Context, p *Project) *Project { return p }, nil)

		p, err := svc.CreateProject(ctx, 12, CreateRequest{ProjectDescription: "Drone swarm", Domain: "AI"})
		require.NoError(t, err)
		assert.Equal(t, "12", p.AdminID)
		assert.Equal(t, "Priya", p.AdminName)
		assert.Equal(t, fixed, p.StartDate)
		assert.Nil(t, p.EndDate)
	})

	t.Run("DefaultsWithoutPoster", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, posters)

		repo.On("Create", ctx, mock.AnythingOfType("*project.Project")).
			Return(func(_ context.Context, p *Project) *Project { return p }, nil)

		p, err := svc.CreateProject(ctx, 0, CreateRequest{ProjectDescription: "Seed"})
		require.NoError(t, err)
		assert.Equal(t, DefaultAdminID, p.AdminID)
		assert.Equal(t, DefaultAdminName, p.AdminName)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, posters)
		start := fixed
		end := fixed.Add(-time.Hour)

		_, err := svc.CreateProject(ctx, 12, CreateRequest{ProjectDescription: "x", StartDate: &start, EndDate: &end})
		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownPoster", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, posters)

		_, err := svc.CreateProject(ctx, 99, CreateRequest{ProjectDescription: "x"})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestService_GetProjectsByPoster(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	svc := NewService(repo, stubPosters{})

	repo.On("GetByAdmin", ctx, "12").Return([]Project{{ID: 1, AdminID: "12"}}, nil)

	projects, err := svc.GetProjectsByPoster(ctx, 12)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestService_Exists_NonPositiveID(t *testing.T) {
	svc := NewService(new(mockRepository), stubPosters{})

	ok, err := svc.Exists(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

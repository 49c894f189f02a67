package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/auth"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	return m.Called(ctx, userID, token, expiresAt).Error(0)
}

func (m *mockTokenStore) GetRefreshToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.RefreshToken), args.Error(1)
}

func (m *mockTokenStore) DeleteRefreshToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenStore) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenStore) DeleteAllUserTokens(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetAll(ctx context.Context, role user.Role) ([]user.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmailOrRegNo(ctx context.Context, email string, regNo int64) (bool, error) {
	args := m.Called(ctx, email, regNo)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) SearchByName(ctx context.Context, name string) ([]user.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockUserRepo) UpdateSettings(ctx context.Context, id int64, settings map[string]interface{}) (*user.User, error) {
	args := m.Called(ctx, id, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(store *mockTokenStore, repo *mockUserRepo) *auth.Service {
	tm := auth.NewTokenManager("test-secret-key-for-testing", time.Hour, time.Hour)
	return auth.NewService(store, repo, user.NewService(repo), tm)
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := user.HashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		repo.On("GetByEmail", ctx, "jane@example.com").Return(&user.User{
			ID: 7, Name: "Jane", Email: "jane@example.com", Password: hashed(t, "password123"), Role: user.RoleUser,
		}, nil)
		store.On("CreateRefreshToken", ctx, int64(7), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := svc.Login(ctx, auth.LoginRequest{Email: " Jane@Example.com ", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "Login successful", resp.Message)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, int64(7), resp.User.ID)
		assert.Equal(t, user.RoleUser, resp.User.Role)

		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, user.ErrUserNotFound)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ghost@example.com", Password: "x"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		store.AssertNotCalled(t, "CreateRefreshToken")
	})

	t.Run("WrongPassword", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		repo.On("GetByEmail", ctx, "jane@example.com").Return(&user.User{
			ID: 7, Email: "jane@example.com", Password: hashed(t, "password123"),
		}, nil)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "jane@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		repo.On("GetByEmail", ctx, "jane@example.com").Return(nil, errors.New("db down"))

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "jane@example.com", Password: "x"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	req := auth.RegisterRequest{
		RegNo: 1001, Name: "Jane", Email: "jane@example.com", Password: "password123",
		Age: 20, Gender: "female", Department: "CSE",
	}

	t.Run("Duplicate", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := newTestService(new(mockTokenStore), repo)

		repo.On("ExistsByEmailOrRegNo", ctx, "jane@example.com", int64(1001)).Return(true, nil)

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, user.ErrUserExists)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("HashesPassword", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := newTestService(new(mockTokenStore), repo)

		repo.On("ExistsByEmailOrRegNo", ctx, "jane@example.com", int64(1001)).Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.Password != "password123" && u.Email == "jane@example.com" && u.Role == user.RoleUser
		})).Return(&user.User{ID: 1, Email: "jane@example.com", Role: user.RoleUser}, nil)

		created, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		repo.AssertExpectations(t)
	})
}

func TestService_RefreshAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Rotates", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		store.On("GetRefreshToken", ctx, "old").Return(&auth.RefreshToken{UserID: 3, Token: "old"}, nil)
		repo.On("GetByID", ctx, int64(3)).Return(&user.User{ID: 3, Email: "a@example.com"}, nil)
		store.On("DeleteRefreshToken", ctx, "old").Return(nil)
		store.On("CreateRefreshToken", ctx, int64(3), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		resp, err := svc.RefreshAccessToken(ctx, "old")
		require.NoError(t, err)
		assert.NotEqual(t, "old", resp.RefreshToken)
		store.AssertExpectations(t)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		store := new(mockTokenStore)
		svc := newTestService(store, new(mockUserRepo))

		store.On("GetRefreshToken", ctx, "nope").Return(nil, errors.New("sql: no rows in result set"))

		_, err := svc.RefreshAccessToken(ctx, "nope")
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		repo.On("GetByID", ctx, int64(5)).Return(&user.User{ID: 5, Password: hashed(t, "old-password")}, nil)
		repo.On("UpdatePassword", ctx, int64(5), mock.AnythingOfType("string")).Return(nil)
		store.On("DeleteAllUserTokens", ctx, int64(5)).Return(nil)

		err := svc.ChangePassword(ctx, 5, auth.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("IncorrectCurrent", func(t *testing.T) {
		store := new(mockTokenStore)
		repo := new(mockUserRepo)
		svc := newTestService(store, repo)

		repo.On("GetByID", ctx, int64(5)).Return(&user.User{ID: 5, Password: hashed(t, "old-password")}, nil)

		err := svc.ChangePassword(ctx, 5, auth.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "new-password"})
		assert.ErrorIs(t, err, auth.ErrIncorrectPassword)
		repo.AssertNotCalled(t, "UpdatePassword")
	})
}

func TestService_CleanupExpiredTokens(t *testing.T) {
	ctx := context.Background()
	store := new(mockTokenStore)
	svc := newTestService(store, new(mockUserRepo))

	store.On("DeleteExpiredTokens", ctx).Return(int64(4), nil)

	n, err := svc.CleanupExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

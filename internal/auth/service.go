package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/user"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrIncorrectPassword   = errors.New("current password is incorrect")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenStore persists refresh tokens.
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteExpiredTokens(ctx context.Context) (int64, error)
	DeleteAllUserTokens(ctx context.Context, userID int64) error
}

type Service struct {
	tokenStore  TokenStore
	userRepo    user.Repository
	userService user.Service
	tokens      *TokenManager
}

func NewService(tokenStore TokenStore, userRepo user.Repository, userService user.Service, tokens *TokenManager) *Service {
	return &Service{
		tokenStore:  tokenStore,
		userRepo:    userRepo,
		userService: userService,
		tokens:      tokens,
	}
}

// Register creates a new account with the user role. Duplicate email or regNo yields user.ErrUserExists.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	return s.userService.CreateUser(ctx, user.CreateRequest{
		RegNo:      req.RegNo,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Age:        req.Age,
		Gender:     req.Gender,
		Department: req.Department,
		Role:       user.RoleUser,
	})
}

// Login authenticates a user and returns tokens
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, u, "Login successful")
}

// RefreshAccessToken rotates the refresh token and issues a new access token
func (s *Service) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*AuthResponse, error) {
	refreshToken, err := s.tokenStore.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, refreshTokenString); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, u, "Token refreshed")
}

// Logout invalidates refresh token
func (s *Service) Logout(ctx context.Context, refreshTokenString string) error {
	return s.tokenStore.DeleteRefreshToken(ctx, refreshTokenString)
}

// ChangePassword verifies the current password, stores the new hash and revokes all refresh tokens.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hashed, err := user.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	return s.tokenStore.DeleteAllUserTokens(ctx, userID)
}

// CleanupExpiredTokens is run periodically by the job scheduler.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenStore.DeleteExpiredTokens(ctx)
}

func (s *Service) generateTokenPair(ctx context.Context, u *user.User, message string) (*AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.tokens.RefreshTTL())
	if err := s.tokenStore.CreateRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Message:      message,
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         u.Summary(),
	}, nil
}

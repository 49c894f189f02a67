package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/httputil"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for email
	EmailKey contextKey = "email"

	cookieName = "token"
)

// UserLookup resolves the caller for role checks.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// AuthMiddleware validates the bearer token (or the token cookie) and adds the caller to the context
func AuthMiddleware(tokens *TokenManager, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			cookie, err := c.Request.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				logger.WarnContext(c.Request.Context(), "no auth token found", "path", c.Request.URL.Path)
				httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			raw = cookie.Value
		}

		claims, err := tokens.ValidateAccessToken(raw)
		if err != nil {
			logger.WarnContext(c.Request.Context(), "invalid token", "error", err)
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondWithError(c, http.StatusUnauthorized, "Token expired. Please login again.")
				return
			}
			httputil.RespondWithError(c, http.StatusUnauthorized, "Invalid token.")
			return
		}

		ctx := WithCaller(c.Request.Context(), claims.UserID, claims.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware. The role is read from the store, not the token,
// so a demotion takes effect immediately.
func RequireAdmin(users UserLookup, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, ok := GetUserID(ctx)
		if !ok {
			httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		u, err := users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				httputil.RespondWithError(c, http.StatusUnauthorized, "User not found")
				return
			}
			logger.ErrorContext(ctx, "failed to resolve caller role", "error", err)
			httputil.RespondWithError(c, http.StatusInternalServerError, "Server error during authorization.")
			return
		}

		if !u.IsAdmin() {
			httputil.RespondWithError(c, http.StatusForbidden, "Admin access only")
			return
		}

		c.Next()
	}
}

// WithCaller stores the authenticated identity in ctx.
func WithCaller(ctx context.Context, userID int64, email string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, EmailKey, email)
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok && userID > 0
}

// GetEmail extracts email from context
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// SetAuthCookie sets the access token in an HttpOnly cookie
func SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	sameSite := http.SameSiteStrictMode
	env := os.Getenv("ENV")
	if env == "development" || env == "local" || env == "" {
		sameSite = http.SameSiteLaxMode // Allow testing from Postman
	}

	secure := env == "production" || env == "prod"

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
	})
}

// ClearAuthCookie removes the auth cookie
func ClearAuthCookie(w http.ResponseWriter) {
	env := os.Getenv("ENV")
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   env == "production" || env == "prod",
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

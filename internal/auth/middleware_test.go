package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/auth"
	"github.com/nagumeena22/ColabSphere/internal/logger"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup map[int64]*user.User

func (s stubLookup) GetByID(_ context.Context, id int64) (*user.User, error) {
	if id == 500 {
		return nil, errors.New("connection reset")
	}
	u, ok := s[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func newGuardedRouter(tm *auth.TokenManager, users auth.UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewDiscard()

	router := gin.New()
	router.Use(auth.AuthMiddleware(tm, log))
	router.GET("/me", func(c *gin.Context) {
		id, _ := auth.GetUserID(c.Request.Context())
		email, _ := auth.GetEmail(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id, "email": email})
	})
	router.GET("/admin", auth.RequireAdmin(users, log), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("test-secret-key-for-testing", time.Hour, time.Hour)
	users := stubLookup{
		1: {ID: 1, Role: user.RoleAdmin},
		2: {ID: 2, Role: user.RoleUser},
	}
	router := newGuardedRouter(tm, users)

	token := func(id int64) string {
		s, err := tm.GenerateAccessToken(id, "caller@example.com")
		require.NoError(t, err)
		return s
	}

	t.Run("MissingToken", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "No token provided")
	})

	t.Run("BearerHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(2))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":2,"email":"caller@example.com"}`, w.Body.String())
	})

	t.Run("CookieFallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token(2)})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token.")
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(2))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin access only")
	})

	t.Run("UnknownCaller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(99))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "User not found")
	})

	t.Run("LookupFailure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(500))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

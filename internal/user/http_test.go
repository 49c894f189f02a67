package user

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nagumeena22/ColabSphere/internal/logger"
	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(repo *mockRepository, caller int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo), logger.NewDiscard(), metrics.NewMock(), func(*gin.Context) (int64, bool) {
		return caller, caller > 0
	})
	router := gin.New()
	h.RegisterRoutes(router)
	h.RegisterAdminRoutes(router.Group("/admin"))
	return router
}

func TestHandler_Users(t *testing.T) {
	t.Run("SearchWithoutName", func(t *testing.T) {
		router := newTestRouter(new(mockRepository), 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/search/name", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Name query parameter is required"}`, w.Body.String())
	})

	t.Run("SearchNoMatches", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("SearchByName", mock.Anything, "zed").Return([]User{}, nil)
		router := newTestRouter(repo, 1)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/search/name?name=zed", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "No users found")
	})

	t.Run("GetInvalidID", func(t *testing.T) {
		router := newTestRouter(new(mockRepository), 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, int64(9)).Return(nil, ErrUserNotFound)
		router := newTestRouter(repo, 1)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/9", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
	})

	t.Run("Delete", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Delete", mock.Anything, int64(4)).Return(nil)
		router := newTestRouter(repo, 1)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/4", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "User deleted successfully")
	})

	t.Run("CreateValidation", func(t *testing.T) {
		router := newTestRouter(new(mockRepository), 1)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"email":"not-an-email"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("AdminMe", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, int64(1)).Return(&User{ID: 1, Name: "Root", Role: RoleAdmin, Password: "hash"}, nil)
		router := newTestRouter(repo, 1)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Root"`)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("AdminUsersByRole", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetAll", mock.Anything, RoleAdmin).Return([]User{{ID: 1, Role: RoleAdmin}}, nil)
		router := newTestRouter(repo, 1)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users?role=admin", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		repo.AssertExpectations(t)
	})
}

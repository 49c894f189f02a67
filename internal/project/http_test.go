package project

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nagumeena22/ColabSphere/internal/logger"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(repo *mockRepository, caller int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := NewService(repo, stubPosters{5: {ID: 5, Name: "Asha", Role: user.RoleUser}})
	h := NewHandler(svc, logger.NewDiscard(), metrics.NewMock(), func(*gin.Context) (int64, bool) {
		return caller, caller > 0
	})
	router := gin.New()
	h.RegisterRoutes(router, router)
	return router
}

func TestHandler_Projects(t *testing.T) {
	t.Run("CreateViaUsersAdd", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*project.Project")).
			Return(func(_ context.Context, p *Project) *Project { p.ID = 3; return p }, nil)
		router := newTestRouter(repo, 5)

		req := httptest.NewRequest(http.MethodPost, "/users/add", bytes.NewBufferString(`{"projectDescription":"Campus map","domain":"Web"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"adminName":"Asha"`)
		assert.Contains(t, w.Body.String(), `"adminId":"5"`)
	})

	t.Run("CreateWithoutDescription", func(t *testing.T) {
		router := newTestRouter(new(mockRepository), 5)

		req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString(`{"domain":"Web"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, int64(77)).Return(nil, ErrProjectNotFound)
		router := newTestRouter(repo, 5)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/77", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Project not found"}`, w.Body.String())
	})

	t.Run("ListPublic", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetAll", mock.Anything).Return([]Project{{ID: 1}, {ID: 2}}, nil)
		router := newTestRouter(repo, 0)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/projects", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

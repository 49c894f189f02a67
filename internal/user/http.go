package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nagumeena22/ColabSphere/internal/httputil"
	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CallerID resolves the authenticated user id from the request.
type CallerID func(c *gin.Context) (int64, bool)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
	callerID CallerID
}

func NewHandler(service Service, logger *slog.Logger, metrics *metrics.Metrics, callerID CallerID) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		metrics:  metrics,
		callerID: callerID,
	}
}

// RegisterRoutes mounts the user CRUD surface. guards run before every route.
func (h *Handler) RegisterRoutes(router gin.IRouter, guards ...gin.HandlerFunc) {
	g := router.Group("/users", guards...)
	g.POST("", h.CreateUser)
	g.GET("", h.GetAllUsers)
	g.GET("/search/name", h.SearchByName)
	g.GET("/:id", h.GetUser)
	g.PUT("/:id", h.UpdateUser)
	g.PATCH("/:id", h.PatchUser)
	g.DELETE("/:id", h.DeleteUser)
}

// RegisterAdminRoutes mounts /me and /users on an already admin-guarded group.
func (h *Handler) RegisterAdminRoutes(router gin.IRouter) {
	router.GET("/me", h.GetMe)
	router.GET("/users", h.GetAllUsers)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(c.Request.Context(), "creating user", "email", req.Email)
	created, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.metrics.RecordUserRegistration(c.Request.Context())

	c.JSON(http.StatusCreated, created)
}

// GetAllUsers lists users, optionally filtered by ?role=
func (h *Handler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context(), Role(c.Query("role")))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	u, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) GetMe(c *gin.Context) {
	id, ok := h.callerID(c)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	u, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(c.Request.Context(), "updating user", "user_id", id)
	u, err := h.service.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) PatchUser(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.service.PatchUser(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := httputil.ParamID(c, "id")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	h.logger.InfoContext(c.Request.Context(), "deleting user", "user_id", id)
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	httputil.RespondWithMessage(c, http.StatusOK, "User deleted successfully")
}

func (h *Handler) SearchByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		httputil.RespondWithError(c, http.StatusBadRequest, "Name query parameter is required")
		return
	}

	users, err := h.service.SearchByName(c.Request.Context(), name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if len(users) == 0 {
		httputil.RespondWithError(c, http.StatusNotFound, "No users found")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrUserExists):
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.ErrorContext(c.Request.Context(), "user request failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

package project

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nagumeena22/ColabSphere/internal/httputil"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
	"github.com/nagumeena22/ColabSphere/internal/user"

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

// RegisterRoutes mounts the public listing on public and everything else on protected.
func (h *Handler) RegisterRoutes(public, protected gin.IRouter) {
	public.GET("/users/projects", h.GetAllProjects)

	protected.POST("/users/add", h.CreateProject)
	protected.GET("/projects", h.GetAllProjects)
	protected.POST("/projects", h.CreateProject)
	protected.GET("/projects/:projectId", h.GetProject)
}

func (h *Handler) CreateProject(c *gin.Context) {
	callerID, ok := h.callerID(c)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateProject(c.Request.Context(), callerID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.metrics.RecordProjectCreated(c.Request.Context())
	h.logger.InfoContext(c.Request.Context(), "project created", "project_id", created.ID, "admin_id", created.AdminID)

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAllProjects(c *gin.Context) {
	projects, err := h.service.GetAllProjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := httputil.ParamID(c, "projectId")
	if !ok {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	p, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, ErrInvalidInput):
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		httputil.RespondWithError(c, http.StatusUnauthorized, "User not found")
	default:
		h.logger.ErrorContext(c.Request.Context(), "project request failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

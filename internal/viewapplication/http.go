package viewapplication

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nagumeena22/ColabSphere/internal/httputil"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes mounts apply on public and the review endpoints on protected.
func (h *Handler) RegisterRoutes(public, protected gin.IRouter) {
	public.POST("/projects/:projectId/apply", h.Apply)
	protected.GET("/projects/:projectId/applications", h.List)
	protected.PUT("/applications/:applicationId", h.UpdateStatus)
}

func (h *Handler) Apply(c *gin.Context) {
	projectID, ok := httputil.ParamID(c, "projectId")
	if !ok {
		httputil.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(c.Request.Context(), "validation failed", "error", err)
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.service.Apply(c.Request.Context(), projectID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": app,
	})
}

func (h *Handler) List(c *gin.Context) {
	projectID, ok := httputil.ParamID(c, "projectId")
	if !ok {
		httputil.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	apps, err := h.service.ListForProject(c.Request.Context(), projectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := httputil.ParamID(c, "applicationId")
	if !ok {
		httputil.RespondWithError(c, http.StatusNotFound, "Application not found")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application status updated",
		"application": app,
	})
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, ErrApplicationNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "Application not found")
	case errors.Is(err, ErrAlreadyApplied):
		httputil.RespondWithError(c, http.StatusBadRequest, "You have already applied to this project")
	case errors.Is(err, ErrInvalidStatus):
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid status")
	default:
		h.logger.ErrorContext(c.Request.Context(), "application operation failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

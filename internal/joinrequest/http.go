package joinrequest

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/nagumeena22/ColabSphere/internal/httputil"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CallerID resolves the authenticated user id from the request.
type CallerID func(c *gin.Context) (int64, bool)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
	callerID CallerID
}

func NewHandler(service Service, logger *slog.Logger, callerID CallerID) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
		callerID: callerID,
	}
}

// RegisterRoutes mounts submission and the request listing on an authenticated router.
// submitGuard throttles submissions; requireAdmin guards responding.
func (h *Handler) RegisterRoutes(router gin.IRouter, submitGuard, requireAdmin gin.HandlerFunc) {
	router.POST("/projects/:projectId/join", submitGuard, h.Submit)
	router.POST("/users/projects/:projectId/join", submitGuard, h.Submit)
	router.GET("/join-requests/mine", h.ListMine)
	h.RegisterListingRoutes(router, requireAdmin)
}

// RegisterListingRoutes mounts list and respond only, for the /admin prefix.
func (h *Handler) RegisterListingRoutes(router gin.IRouter, requireAdmin gin.HandlerFunc) {
	router.GET("/join-requests", h.List)
	router.PUT("/join-requests/:requestId", requireAdmin, h.Respond)
}

func (h *Handler) Submit(c *gin.Context) {
	callerID, ok := h.callerID(c)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	projectID, ok := httputil.ParamID(c, "projectId")
	if !ok {
		httputil.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	// the body is optional; an empty one (including a chunked empty one) means no message
	var req SubmitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "message is too long")
		return
	}

	created, err := h.service.Submit(c.Request.Context(), callerID, projectID, req.Message)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Join request sent successfully",
		"joinRequest": created,
	})
}

func (h *Handler) Respond(c *gin.Context) {
	requestID, ok := httputil.ParamID(c, "requestId")
	if !ok {
		httputil.RespondWithError(c, http.StatusNotFound, "Join request not found")
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid status. Must be accepted or rejected")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "message is too long")
		return
	}

	resolved, err := h.service.Respond(c.Request.Context(), requestID, req.Status, req.Message)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Join request " + string(resolved.Status),
		"joinRequest": resolved,
	})
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListMine(c *gin.Context) {
	callerID, ok := h.callerID(c)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	list, err := h.service.ListForUser(c.Request.Context(), callerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "Project not found")
	case errors.Is(err, ErrJoinRequestNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "Join request not found")
	case errors.Is(err, ErrDuplicateRequest):
		httputil.RespondWithError(c, http.StatusBadRequest, "You have already requested to join this project")
	case errors.Is(err, ErrInvalidStatus):
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid status. Must be accepted or rejected")
	case errors.Is(err, ErrAlreadyResolved):
		httputil.RespondWithError(c, http.StatusConflict, "Join request has already been resolved")
	default:
		h.logger.ErrorContext(c.Request.Context(), "join request operation failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

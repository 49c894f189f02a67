package account

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/nagumeena22/ColabSphere/internal/httputil"
	"github.com/nagumeena22/ColabSphere/internal/user"

	"github.com/gin-gonic/gin"
)

const exportFilename = "colabsphere-data.json"

// CallerID resolves the authenticated user id from the request.
type CallerID func(c *gin.Context) (int64, bool)

type Handler struct {
	service  *Service
	logger   *slog.Logger
	callerID CallerID
}

func NewHandler(service *Service, logger *slog.Logger, callerID CallerID) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		callerID: callerID,
	}
}

// RegisterRoutes mounts the account endpoints on an authenticated router.
// Settings and export are also reachable under /admin where the dashboard calls them.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/profile", h.GetProfile)
	for _, prefix := range []string{"/auth", "/admin"} {
		g := router.Group(prefix)
		g.PUT("/settings", h.SaveSettings)
		g.GET("/export-data", h.ExportData)
	}
	router.GET("/auth/profile", h.GetUser)
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SaveSettings accepts either {"settings": {...}} or the settings object itself.
func (h *Handler) SaveSettings(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	settings, err := decodeSettings(raw)
	if err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "settings must be a JSON object")
		return
	}

	updated, err := h.service.SaveSettings(c.Request.Context(), userID, settings)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Settings saved successfully",
		"user":    updated,
	})
}

func (h *Handler) ExportData(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	export, err := h.service.ExportData(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.JSON(http.StatusOK, export)
}

func (h *Handler) caller(c *gin.Context) (int64, bool) {
	userID, ok := h.callerID(c)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}
	return userID, ok
}

func (h *Handler) handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, user.ErrUserNotFound) {
		httputil.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}
	h.logger.ErrorContext(c.Request.Context(), "account operation failed", "error", err)
	httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}

func decodeSettings(raw []byte) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	if body == nil {
		return map[string]interface{}{}, nil
	}
	if nested, ok := body["settings"]; ok && len(body) == 1 {
		switch v := nested.(type) {
		case map[string]interface{}:
			return v, nil
		case nil:
			return map[string]interface{}{}, nil
		default:
			return nil, errors.New("settings is not an object")
		}
	}
	return body, nil
}

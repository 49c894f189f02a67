package auth

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

type Handler struct {
	service   *Service
	tokens    *TokenManager
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator *validator.Validate
}

func NewHandler(service *Service, tokens *TokenManager, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service:   service,
		tokens:    tokens,
		logger:    logger,
		metrics:   m,
		validator: validator.New(),
	}
}

// RegisterRoutes mounts /auth. requireAuth guards change-password; loginLimit throttles login attempts.
func (h *Handler) RegisterRoutes(router gin.IRouter, requireAuth, loginLimit gin.HandlerFunc) {
	g := router.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", loginLimit, h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.PUT("/change-password", requireAuth, h.ChangePassword)
}

// Register creates a new account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WarnContext(c.Request.Context(), "failed to decode request", "error", err)
		httputil.RespondWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.WarnContext(c.Request.Context(), "validation failed", "error", err)
		httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			httputil.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "registration failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.RecordUserRegistration(c.Request.Context())
	h.logger.InfoContext(c.Request.Context(), "user registered", "user_id", created.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    created,
	})
}

// Login authenticates a user
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.WarnContext(c.Request.Context(), "validation failed", "error", err)
		httputil.RespondWithError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httputil.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(c.Request.Context(), "user logged in", "user_id", resp.User.ID)

	SetAuthCookie(c.Writer, resp.Token, h.tokens.AccessTTL())
	c.JSON(http.StatusOK, resp)
}

// Refresh generates a new access token
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validator.Struct(req) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	resp, err := h.service.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			httputil.RespondWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "token refresh failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	SetAuthCookie(c.Writer, resp.Token, h.tokens.AccessTTL())
	c.JSON(http.StatusOK, resp)
}

// Logout invalidates the refresh token
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validator.Struct(req) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "logout failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	ClearAuthCookie(c.Writer)
	c.Status(http.StatusNoContent)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := GetUserID(c.Request.Context())
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Access denied. No token provided.")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || h.validator.Struct(req) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Current password and new password are required")
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), userID, req)
	switch {
	case err == nil:
		httputil.RespondWithMessage(c, http.StatusOK, "Password changed successfully")
	case errors.Is(err, ErrIncorrectPassword):
		httputil.RespondWithError(c, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, user.ErrUserNotFound):
		httputil.RespondWithError(c, http.StatusNotFound, "User not found")
	default:
		h.logger.ErrorContext(c.Request.Context(), "change password failed", "error", err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

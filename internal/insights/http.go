package insights

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/insights", h.GetInsights)
}

// GetInsights always answers 200; failed sections come back empty.
func (h *Handler) GetInsights(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Report(c.Request.Context()))
}

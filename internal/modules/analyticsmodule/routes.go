package analyticsmodule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/streamvault/streamvault/internal/errors"
)

// Handler exposes the analytics generator over HTTP
type Handler struct {
	generator *Generator
}

// NewHandler creates an analytics API handler
func NewHandler(generator *Generator) *Handler {
	return &Handler{generator: generator}
}

// RegisterRoutes attaches the analytics routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/admin/analytics", h.GetAnalytics)
}

// GetAnalytics handles GET /api/admin/analytics
func (h *Handler) GetAnalytics(c *gin.Context) {
	data, err := h.generator.Generate(c.Request.Context())
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

package securitymodule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/streamvault/streamvault/internal/errors"
)

// Handler exposes the audit log over HTTP
type Handler struct {
	generator *Generator
}

// NewHandler creates a security API handler
func NewHandler(generator *Generator) *Handler {
	return &Handler{generator: generator}
}

// RegisterRoutes attaches the security routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/admin/security/logs", h.GetLogs)
}

// GetLogs handles GET /api/admin/security/logs
func (h *Handler) GetLogs(c *gin.Context) {
	entries, err := h.generator.Generate(c.Request.Context())
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

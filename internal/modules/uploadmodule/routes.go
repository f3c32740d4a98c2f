package uploadmodule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/streamvault/streamvault/internal/errors"
)

// Handler exposes the upload simulator over HTTP
type Handler struct {
	manager *Manager
}

// NewHandler creates an upload API handler
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes attaches the upload routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	uploads := router.Group("/api/admin/uploads")
	{
		uploads.GET("", h.ListUploads)
		uploads.POST("", h.StartUpload)
		uploads.POST("/submit", h.SubmitUploads)
		uploads.DELETE("/:id", h.RemoveUpload)
	}
}

type startUploadRequest struct {
	Name string `json:"name" binding:"required"`
	Size int64  `json:"size" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// ListUploads handles GET /api/admin/uploads
func (h *Handler) ListUploads(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Files())
}

// StartUpload handles POST /api/admin/uploads
func (h *Handler) StartUpload(c *gin.Context) {
	var req startUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, h.manager.Add(req.Name, req.Size, req.Type))
}

// SubmitUploads handles POST /api/admin/uploads/submit
func (h *Handler) SubmitUploads(c *gin.Context) {
	count, err := h.manager.Submit()
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submitted": count})
}

// RemoveUpload handles DELETE /api/admin/uploads/:id
func (h *Handler) RemoveUpload(c *gin.Context) {
	if err := h.manager.Remove(c.Param("id")); err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

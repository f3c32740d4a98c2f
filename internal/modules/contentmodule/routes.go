package contentmodule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/streamvault/streamvault/internal/errors"
)

// Handler exposes the content service over HTTP
type Handler struct {
	service *Service
}

// NewHandler creates a content API handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the content routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	content := router.Group("/api/admin/content")
	{
		content.GET("", h.ListMovies)
		content.GET("/:id", h.GetMovie)
		content.POST("", h.AddMovie)
		content.PUT("/:id", h.UpdateMovie)
		content.DELETE("/:id", h.DeleteMovie)
	}
}

// ListMovies handles GET /api/admin/content
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.service.List(c.Request.Context())
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, movies)
}

// GetMovie handles GET /api/admin/content/:id
func (h *Handler) GetMovie(c *gin.Context) {
	movie, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// AddMovie handles POST /api/admin/content
func (h *Handler) AddMovie(c *gin.Context) {
	var req AddMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// UpdateMovie handles PUT /api/admin/content/:id
func (h *Handler) UpdateMovie(c *gin.Context) {
	var patch MoviePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// DeleteMovie handles DELETE /api/admin/content/:id
func (h *Handler) DeleteMovie(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package authmodule

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/streamvault/streamvault/internal/errors"
)

// Handler exposes the session manager over HTTP
type Handler struct {
	manager *Manager
}

// NewHandler creates an auth API handler
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes attaches the auth routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/admin/auth")
	{
		auth.GET("/session", h.GetSession)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/register", h.Register)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/switch-role", h.SwitchRole)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type resetRequest struct {
	Email string `json:"email" binding:"required"`
}

type switchRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

// GetSession handles GET /api/admin/auth/session
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Session())
}

// Login handles POST /api/admin/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.manager.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/admin/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context()); err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Register handles POST /api/admin/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.manager.Register(c.Request.Context(), req.Email, req.Password, req.Username); err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account created. You can now log in."})
}

// ResetPassword handles POST /api/admin/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.manager.ResetPassword(c.Request.Context(), req.Email); err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset instructions have been sent."})
}

// SwitchRole handles POST /api/admin/auth/switch-role
func (h *Handler) SwitchRole(c *gin.Context) {
	var req switchRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.manager.SwitchRole(req.Role)
	if err != nil {
		apperrors.ToGinResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

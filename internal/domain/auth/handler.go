package auth

import (
	"net/http"

	"iyffa/internal/common"
	"iyffa/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.service.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, result)
}

// Refresh handles POST /api/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, pair)
}

// RequestPasswordReset handles POST /api/auth/password-reset
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		common.HandleError(c, err)
		return
	}

	// Same response whether or not the email exists
	common.Success(c, http.StatusOK, gin.H{"message": "if the email exists, a reset link has been sent"})
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.service.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}

// Enable2FA handles POST /api/auth/2fa/enable
func (h *Handler) Enable2FA(c *gin.Context) {
	memberID := middleware.MemberID(c)

	secret, err := h.service.Enable2FA(c.Request.Context(), memberID)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{
		"message":    "2FA enabled successfully",
		"otp_secret": secret,
	})
}

// Disable2FA handles POST /api/auth/2fa/disable
func (h *Handler) Disable2FA(c *gin.Context) {
	memberID := middleware.MemberID(c)

	if err := h.service.Disable2FA(c.Request.Context(), memberID); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"message": "2FA disabled successfully"})
}

// RegisterPublicRoutes registers unauthenticated auth routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/verify-otp", h.VerifyOTP)
	rg.POST("/auth/refresh", h.Refresh)
	rg.POST("/auth/password-reset", h.RequestPasswordReset)
	rg.POST("/auth/password-reset/confirm", h.ConfirmPasswordReset)
}

// RegisterProtectedRoutes registers auth routes that require a valid session.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/2fa/enable", h.Enable2FA)
	rg.POST("/auth/2fa/disable", h.Disable2FA)
}

package billing

import (
	"net/http"
	"strconv"

	"iyffa/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for payments and cotisations.
// The intent and webhook endpoints are public (the payment form runs
// before login; Stripe calls the webhook); everything else requires
// authentication.
type Handler struct {
	service *Service
}

// NewHandler creates a new billing handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateIntent handles POST /api/payments/intent
func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.CreateIntent(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// Webhook handles POST /api/payments/webhook
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		common.Error(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := h.service.HandleWebhook(c.Request.Context(), payload, sigHeader); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"received": true})
}

// GetPayment handles GET /api/payments/:id
func (h *Handler) GetPayment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid payment id")
		return
	}

	p, err := h.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, p)
}

// ListPayments handles GET /api/payments
func (h *Handler) ListPayments(c *gin.Context) {
	payments, err := h.service.ListPayments(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, payments)
}

// CreateCotisation handles POST /api/cotisations
func (h *Handler) CreateCotisation(c *gin.Context) {
	var req CotisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cot, err := h.service.CreateCotisation(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusCreated, cot)
}

// GetCotisation handles GET /api/cotisations/:id
func (h *Handler) GetCotisation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid cotisation id")
		return
	}

	cot, err := h.service.GetCotisation(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, cot)
}

// ListCotisations handles GET /api/cotisations
func (h *Handler) ListCotisations(c *gin.Context) {
	cotisations, err := h.service.ListCotisations(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, cotisations)
}

// UpdateCotisation handles PATCH /api/cotisations/:id
func (h *Handler) UpdateCotisation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid cotisation id")
		return
	}

	var req CotisationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cot, err := h.service.UpdateCotisation(c.Request.Context(), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, cot)
}

// DeleteCotisation handles DELETE /api/cotisations/:id
func (h *Handler) DeleteCotisation(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.Error(c, http.StatusBadRequest, "invalid cotisation id")
		return
	}

	if err := h.service.DeleteCotisation(c.Request.Context(), id); err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// RegisterPublicRoutes registers the payment form and webhook endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/intent", h.CreateIntent)
	rg.POST("/payments/webhook", h.Webhook)
}

// RegisterProtectedRoutes registers the authenticated billing routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.ListPayments)
	rg.GET("/payments/:id", h.GetPayment)
	rg.POST("/cotisations", h.CreateCotisation)
	rg.GET("/cotisations", h.ListCotisations)
	rg.GET("/cotisations/:id", h.GetCotisation)
	rg.PATCH("/cotisations/:id", h.UpdateCotisation)
	rg.DELETE("/cotisations/:id", h.DeleteCotisation)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

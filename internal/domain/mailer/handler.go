package mailer

import (
	"log/slog"
	"net/http"

	"iyffa/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the mailer domain.
// These routes are admin-facing: operators inspect delivery logs and
// delivery webhooks update statuses.
type Handler struct {
	service *Service
}

// NewHandler creates a new mailer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMail handles GET /api/mails/:id
func (h *Handler) GetMail(c *gin.Context) {
	id := c.Param("id")

	mailLog, err := h.service.GetMail(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, mailLog)
}

// ListMails handles GET /api/mails
func (h *Handler) ListMails(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.ListMails(c.Request.Context(), filter)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, resp)
}

// ResendWebhook handles POST /api/webhooks/resend
// Receives delivery status updates from Resend webhooks.
func (h *Handler) ResendWebhook(c *gin.Context) {
	var event struct {
		Type string `json:"type"`
		Data struct {
			EmailID string `json:"email_id"`
		} `json:"data"`
	}

	if err := c.ShouldBindJSON(&event); err != nil {
		common.Error(c, http.StatusBadRequest, "invalid webhook payload: "+err.Error())
		return
	}

	// Map Resend event types to our mail statuses
	var status Status
	switch event.Type {
	case "email.delivered":
		status = StatusDelivered
	case "email.bounced":
		status = StatusBounced
	case "email.opened":
		status = StatusOpened
	default:
		// Acknowledge but ignore unhandled event types
		slog.Info("ignoring webhook event", "type", event.Type)
		common.Success(c, http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.service.HandleWebhookEvent(c.Request.Context(), event.Data.EmailID, status); err != nil {
		slog.Error("webhook processing failed",
			"event_type", event.Type,
			"email_id", event.Data.EmailID,
			"error", err,
		)
		common.HandleError(c, err)
		return
	}

	common.Success(c, http.StatusOK, gin.H{"status": "processed"})
}

// RegisterRoutes registers admin mail log routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/mails", h.ListMails)
	rg.GET("/mails/:id", h.GetMail)
}

// RegisterWebhookRoutes registers the public delivery webhook route.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/resend", h.ResendWebhook)
}

package mailer

import "time"

// Status represents the delivery status of an outbound email.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
	StatusDelivered  Status = "delivered"
	StatusBounced    Status = "bounced"
	StatusOpened     Status = "opened"
)

// MailLog represents a persisted outbound email record.
type MailLog struct {
	ID             string         `json:"id"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Type           string         `json:"type"`
	Recipient      string         `json:"recipient"`
	TemplateData   map[string]any `json:"template_data,omitempty"`
	ProviderID     string         `json:"provider_id,omitempty"`
	Status         Status         `json:"status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	OpenedAt       *time.Time     `json:"opened_at,omitempty"`
	BouncedAt      *time.Time     `json:"bounced_at,omitempty"`
}

// ListFilter defines pagination and filtering options for listing mail logs.
type ListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
	Recipient string `form:"recipient"`
	Type      string `form:"type"`
}

// ListResponse wraps a paginated list of mail logs.
type ListResponse struct {
	Mails    []*MailLog `json:"mails"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

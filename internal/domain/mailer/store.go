package mailer

import (
	"context"
	"time"
)

// MailStore defines the contract for persisting outbound email records.
// Implementations live in infra/store/ (Supabase).
type MailStore interface {
	// Create inserts a new mail log record.
	Create(ctx context.Context, log *MailLog) error

	// GetByID retrieves a mail log by its ID.
	GetByID(ctx context.Context, id string) (*MailLog, error)

	// GetByIdempotencyKey retrieves a mail log by its idempotency key.
	// Returns nil, nil if no record is found.
	GetByIdempotencyKey(ctx context.Context, key string) (*MailLog, error)

	// UpdateStatus updates the status of a mail log.
	UpdateStatus(ctx context.Context, id string, status Status, providerID string, errMsg string) error

	// UpdateWebhookStatus updates the status of a mail log based on provider ID (for webhook events).
	UpdateWebhookStatus(ctx context.Context, providerID string, status Status) error

	// List retrieves mail logs with pagination and filtering.
	List(ctx context.Context, filter ListFilter) ([]*MailLog, int, error)

	// ListStale retrieves mail logs stuck in queued/processing for longer
	// than the given threshold. Used by the reaper for reconciliation.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*MailLog, error)
}

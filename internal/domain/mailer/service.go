package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"iyffa/internal/common"
)

// Enqueuer defines the contract for enqueuing send mail tasks.
// This allows the service to be decoupled from the specific queue implementation.
type Enqueuer interface {
	EnqueueSendMail(logID string) error
}

// Service orchestrates outbound email business logic.
// In the async flow: validate → check idempotency → check rate limit → create log → enqueue.
type Service struct {
	store       MailStore
	enqueuer    Enqueuer
	rateLimiter RecipientRateLimiter
}

// NewService creates a new mailer service.
func NewService(store MailStore, enqueuer Enqueuer, rateLimiter RecipientRateLimiter) *Service {
	return &Service{
		store:       store,
		enqueuer:    enqueuer,
		rateLimiter: rateLimiter,
	}
}

// Enqueue validates an email request, checks idempotency and rate limits,
// creates a log record, and enqueues the task for async processing.
func (s *Service) Enqueue(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	// Validate mail type
	if !IsValidType(req.Type) {
		return nil, common.NewValidationError(fmt.Sprintf("unsupported mail type: %s", req.Type))
	}

	// Idempotency: a request with the same key returns the existing result
	if req.IdempotencyKey != "" {
		existing, err := s.store.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			slog.Error("idempotency check failed", "key", req.IdempotencyKey, "error", err)
			// Proceed without idempotency protection rather than failing the send
		}
		if existing != nil {
			slog.Info("idempotent request, returning existing result",
				"idempotency_key", req.IdempotencyKey,
				"existing_id", existing.ID,
				"existing_status", existing.Status,
			)
			return &SendResponse{
				ID:             existing.ID,
				IdempotencyKey: existing.IdempotencyKey,
				Status:         string(existing.Status),
			}, nil
		}
	}

	// Check per-recipient rate limit
	if s.rateLimiter != nil {
		allowed, err := s.rateLimiter.Allow(ctx, req.To)
		if err != nil {
			slog.Error("rate limit check failed, proceeding without limit", "recipient", req.To, "error", err)
			// Fail open: don't block sends when Redis is down
		} else if !allowed {
			return nil, common.NewValidationError(fmt.Sprintf("rate limit exceeded for recipient: %s", req.To))
		}
	}

	// Create the mail log
	mailLog := &MailLog{
		IdempotencyKey: req.IdempotencyKey,
		Type:           string(req.Type),
		Recipient:      req.To,
		TemplateData:   req.Data,
		Status:         StatusQueued,
	}

	if err := s.store.Create(ctx, mailLog); err != nil {
		return nil, fmt.Errorf("creating mail log: %w", err)
	}

	// Enqueue the task for async processing
	if err := s.enqueuer.EnqueueSendMail(mailLog.ID); err != nil {
		// Update log status to failed since we couldn't enqueue
		_ = s.store.UpdateStatus(ctx, mailLog.ID, StatusFailed, "", "failed to enqueue: "+err.Error())
		return nil, fmt.Errorf("enqueuing mail: %w", err)
	}

	slog.Info("mail enqueued",
		"id", mailLog.ID,
		"type", req.Type,
		"to", req.To,
	)

	return &SendResponse{
		ID:             mailLog.ID,
		IdempotencyKey: mailLog.IdempotencyKey,
		Status:         string(StatusQueued),
	}, nil
}

// GetMail retrieves a mail log by ID.
func (s *Service) GetMail(ctx context.Context, id string) (*MailLog, error) {
	mailLog, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching mail log: %w", err)
	}
	if mailLog == nil {
		return nil, common.NewNotFoundError("mail", id)
	}
	return mailLog, nil
}

// ListMails retrieves mail logs with pagination and filtering.
func (s *Service) ListMails(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	logs, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing mail logs: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	return &ListResponse{
		Mails:    logs,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// HandleWebhookEvent processes a delivery status update from a provider webhook.
func (s *Service) HandleWebhookEvent(ctx context.Context, providerID string, status Status) error {
	if providerID == "" {
		return common.NewValidationError("provider_id is required")
	}

	if err := s.store.UpdateWebhookStatus(ctx, providerID, status); err != nil {
		return fmt.Errorf("updating webhook status: %w", err)
	}

	slog.Info("webhook status updated",
		"provider_id", providerID,
		"status", status,
	)

	return nil
}

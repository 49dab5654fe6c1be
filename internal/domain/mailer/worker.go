package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"iyffa/internal/common"

	"github.com/hibiken/asynq"
)

// Worker processes send mail tasks from the queue.
// It picks up a task, fetches the log from the store, renders the template,
// sends via the email provider, and updates the log status.
type Worker struct {
	store    MailStore
	renderer TemplateRenderer
	provider Provider
}

// NewWorker creates a new mailer worker.
func NewWorker(store MailStore, renderer TemplateRenderer, provider Provider) *Worker {
	return &Worker{
		store:    store,
		renderer: renderer,
		provider: provider,
	}
}

// RenderFailure marks template rendering errors that must not be retried:
// re-running a malformed template or an incomplete context produces the
// same result every time. Implemented by the errors in infra/template.
type RenderFailure interface {
	error
	Permanent() bool
}

// ProcessTask handles a send mail task from the queue.
func (w *Worker) ProcessTask(ctx context.Context, logID string) error {
	start := time.Now()

	// Fetch the mail log
	mailLog, err := w.store.GetByID(ctx, logID)
	if err != nil {
		return fmt.Errorf("fetching mail log %s: %w", logID, err)
	}

	if mailLog == nil {
		slog.Error("mail log not found", "log_id", logID)
		return fmt.Errorf("mail log not found: %s", logID)
	}

	// Update status to processing
	if err := w.store.UpdateStatus(ctx, logID, StatusProcessing, "", ""); err != nil {
		slog.Error("failed to update status to processing", "log_id", logID, "error", err)
	}

	mailType := MailType(mailLog.Type)

	// Validate mail type
	if !IsValidType(mailType) {
		errMsg := fmt.Sprintf("unsupported mail type: %s", mailType)
		_ = w.store.UpdateStatus(ctx, logID, StatusFailed, "", errMsg)
		return common.NewValidationError(errMsg)
	}

	// Render the template
	subject, html, text, err := w.renderer.Render(mailType, mailLog.TemplateData)
	if err != nil {
		errMsg := fmt.Sprintf("rendering template: %s", err.Error())
		_ = w.store.UpdateStatus(ctx, logID, StatusFailed, "", errMsg)

		// Render failures are configuration or developer errors; retrying a
		// malformed template will not change the outcome. Log loudly and stop.
		var rf RenderFailure
		if errors.As(err, &rf) && rf.Permanent() {
			slog.Error("template render failed permanently, operator attention required",
				"log_id", logID,
				"type", mailType,
				"error", err,
			)
			return fmt.Errorf("rendering template %s: %w: %w", mailType, asynq.SkipRetry, err)
		}
		return fmt.Errorf("rendering template %s: %w", mailType, err)
	}

	// Build the message
	msg := &Message{
		To:      mailLog.Recipient,
		Subject: subject,
		HTML:    html,
		Text:    text,
	}

	// Send via the email provider
	providerID, err := w.provider.Send(ctx, msg)
	if err != nil {
		errMsg := fmt.Sprintf("provider error: %s", err.Error())
		_ = w.store.UpdateStatus(ctx, logID, StatusFailed, "", errMsg)

		slog.Error("mail delivery failed",
			"log_id", logID,
			"type", mailType,
			"to", mailLog.Recipient,
			"error", err,
			"duration", time.Since(start),
		)
		return common.NewProviderError("email", err.Error())
	}

	// Update log with success
	if err := w.store.UpdateStatus(ctx, logID, StatusSent, providerID, ""); err != nil {
		slog.Error("failed to update status to sent", "log_id", logID, "error", err)
	}

	slog.Info("mail sent",
		"log_id", logID,
		"type", mailType,
		"to", mailLog.Recipient,
		"provider_id", providerID,
		"duration", time.Since(start),
	)

	return nil
}

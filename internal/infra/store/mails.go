package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"iyffa/internal/domain/mailer"

	"github.com/supabase-community/postgrest-go"
)

const mailLogsTable = "mail_logs"

var _ mailer.MailStore = (*MailLogStore)(nil)

// MailLogStore implements mailer.MailStore on Supabase.
type MailLogStore struct {
	client *Client
}

// NewMailLogStore creates a Supabase-backed mail log store.
func NewMailLogStore(client *Client) *MailLogStore {
	return &MailLogStore{client: client}
}

// mailLogRow is the PostgREST representation of a mail log record.
type mailLogRow struct {
	ID             string         `json:"id,omitempty"`
	IdempotencyKey *string        `json:"idempotency_key,omitempty"`
	Type           string         `json:"type"`
	Recipient      string         `json:"recipient"`
	TemplateData   map[string]any `json:"template_data,omitempty"`
	ProviderID     *string        `json:"provider_id,omitempty"`
	Status         string         `json:"status"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
	SentAt         *string        `json:"sent_at,omitempty"`
	DeliveredAt    *string        `json:"delivered_at,omitempty"`
	OpenedAt       *string        `json:"opened_at,omitempty"`
	BouncedAt      *string        `json:"bounced_at,omitempty"`
}

// Create inserts a new mail log record.
func (s *MailLogStore) Create(ctx context.Context, log *mailer.MailLog) error {
	row := mailLogRow{
		Type:      log.Type,
		Recipient: log.Recipient,
		Status:    string(log.Status),
	}

	if log.IdempotencyKey != "" {
		row.IdempotencyKey = &log.IdempotencyKey
	}
	if log.TemplateData != nil {
		row.TemplateData = log.TemplateData
	}

	var results []mailLogRow
	data, _, err := s.client.sb.From(mailLogsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting mail log: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		log.ID = results[0].ID
		log.CreatedAt = parseTime(results[0].CreatedAt)
		log.UpdatedAt = parseTime(results[0].UpdatedAt)
	}

	return nil
}

// GetByID retrieves a mail log by its ID.
func (s *MailLogStore) GetByID(ctx context.Context, id string) (*mailer.MailLog, error) {
	data, _, err := s.client.sb.From(mailLogsTable).Select("*", "exact", false).Eq("id", id).Single().Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching mail log: %w", err)
	}

	var row mailLogRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("parsing mail log: %w", err)
	}

	return rowToMailLog(&row), nil
}

// GetByIdempotencyKey retrieves a mail log by its idempotency key.
// Returns nil, nil if no record is found.
func (s *MailLogStore) GetByIdempotencyKey(ctx context.Context, key string) (*mailer.MailLog, error) {
	data, _, err := s.client.sb.From(mailLogsTable).Select("*", "exact", false).Eq("idempotency_key", key).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching by idempotency key: %w", err)
	}

	var rows []mailLogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing idempotency result: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToMailLog(&rows[0]), nil
}

// UpdateStatus updates the status of a mail log.
func (s *MailLogStore) UpdateStatus(ctx context.Context, id string, status mailer.Status, providerID string, errMsg string) error {
	now := formatTime(time.Now())

	update := map[string]any{
		"status":     string(status),
		"updated_at": now,
	}

	if providerID != "" {
		update["provider_id"] = providerID
	}
	if errMsg != "" {
		update["error_message"] = errMsg
	}
	if status == mailer.StatusSent {
		update["sent_at"] = now
	}

	_, _, err := s.client.sb.From(mailLogsTable).Update(update, "", "").Eq("id", id).Execute()
	if err != nil {
		return fmt.Errorf("updating mail status: %w", err)
	}

	return nil
}

// UpdateWebhookStatus updates a mail log's status based on the provider's message ID.
func (s *MailLogStore) UpdateWebhookStatus(ctx context.Context, providerID string, status mailer.Status) error {
	now := formatTime(time.Now())

	update := map[string]any{
		"status":     string(status),
		"updated_at": now,
	}

	switch status {
	case mailer.StatusDelivered:
		update["delivered_at"] = now
	case mailer.StatusBounced:
		update["bounced_at"] = now
	case mailer.StatusOpened:
		update["opened_at"] = now
	}

	_, _, err := s.client.sb.From(mailLogsTable).Update(update, "", "").Eq("provider_id", providerID).Execute()
	if err != nil {
		return fmt.Errorf("updating webhook status: %w", err)
	}

	return nil
}

// List retrieves mail logs with pagination and filtering.
func (s *MailLogStore) List(ctx context.Context, filter mailer.ListFilter) ([]*mailer.MailLog, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := s.client.sb.From(mailLogsTable).Select("*", "exact", false)

	if filter.Status != "" {
		query = query.Eq("status", filter.Status)
	}
	if filter.Recipient != "" {
		query = query.Eq("recipient", filter.Recipient)
	}
	if filter.Type != "" {
		query = query.Eq("type", filter.Type)
	}

	query = query.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	query = query.Range(offset, offset+filter.PageSize-1, "")

	data, count, err := query.Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("listing mail logs: %w", err)
	}

	var rows []mailLogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, 0, fmt.Errorf("parsing mail list: %w", err)
	}

	logs := make([]*mailer.MailLog, len(rows))
	for i, row := range rows {
		logs[i] = rowToMailLog(&row)
	}

	return logs, int(count), nil
}

// ListStale retrieves mail logs stuck in queued/processing for longer than olderThan.
func (s *MailLogStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*mailer.MailLog, error) {
	if limit <= 0 {
		limit = 50
	}

	threshold := formatTime(olderThan)

	query := s.client.sb.From(mailLogsTable).
		Select("*", "exact", false).
		In("status", []string{string(mailer.StatusQueued), string(mailer.StatusProcessing)}).
		Lt("updated_at", threshold).
		Order("updated_at", &postgrest.OrderOpts{Ascending: true}).
		Range(0, limit-1, "")

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("listing stale mails: %w", err)
	}

	var rows []mailLogRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing stale mails: %w", err)
	}

	logs := make([]*mailer.MailLog, len(rows))
	for i, row := range rows {
		logs[i] = rowToMailLog(&row)
	}

	return logs, nil
}

// rowToMailLog converts a mailLogRow to a mailer.MailLog.
func rowToMailLog(row *mailLogRow) *mailer.MailLog {
	log := &mailer.MailLog{
		ID:        row.ID,
		Type:      row.Type,
		Recipient: row.Recipient,
		Status:    mailer.Status(row.Status),
		CreatedAt: parseTime(row.CreatedAt),
		UpdatedAt: parseTime(row.UpdatedAt),
	}

	if row.IdempotencyKey != nil {
		log.IdempotencyKey = *row.IdempotencyKey
	}
	if row.TemplateData != nil {
		log.TemplateData = row.TemplateData
	}
	if row.ProviderID != nil {
		log.ProviderID = *row.ProviderID
	}
	if row.ErrorMessage != nil {
		log.ErrorMessage = *row.ErrorMessage
	}

	log.SentAt = parseTimePtr(row.SentAt)
	log.DeliveredAt = parseTimePtr(row.DeliveredAt)
	log.OpenedAt = parseTimePtr(row.OpenedAt)
	log.BouncedAt = parseTimePtr(row.BouncedAt)

	return log
}

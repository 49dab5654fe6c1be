package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"iyffa/internal/domain/billing"

	"github.com/supabase-community/postgrest-go"
)

const (
	paymentsTable    = "ifa_payment"
	cotisationsTable = "ifa_cotisation"
)

var (
	_ billing.PaymentStore    = (*BillingStore)(nil)
	_ billing.CotisationStore = (*BillingStore)(nil)
)

// BillingStore implements billing.PaymentStore and billing.CotisationStore on Supabase.
type BillingStore struct {
	client *Client
}

// NewBillingStore creates a Supabase-backed billing store.
func NewBillingStore(client *Client) *BillingStore {
	return &BillingStore{client: client}
}

// paymentRow is the PostgREST representation of an ifa_payment record.
type paymentRow struct {
	ID              int64   `json:"pay_id,omitempty"`
	StripePaymentID string  `json:"pay_stripe_id"`
	Amount          float64 `json:"pay_amount"`
	Currency        string  `json:"pay_currency"`
	Status          string  `json:"pay_status"`
	Email           string  `json:"pay_email,omitempty"`
	Name            string  `json:"pay_name,omitempty"`
	EventID         *int64  `json:"eve_id,omitempty"`
	CotisationID    *int64  `json:"cot_id,omitempty"`
	CreatedAt       string  `json:"pay_creation_time,omitempty"`
}

// cotisationRow is the PostgREST representation of an ifa_cotisation record.
type cotisationRow struct {
	ID       int64   `json:"cot_id,omitempty"`
	Type     string  `json:"cot_type"`
	Amount   float64 `json:"cot_amount"`
	MemberID int64   `json:"usr_id"`
}

func rowToPayment(row *paymentRow) *billing.Payment {
	return &billing.Payment{
		ID:              row.ID,
		StripePaymentID: row.StripePaymentID,
		Amount:          row.Amount,
		Currency:        row.Currency,
		Status:          row.Status,
		Email:           row.Email,
		Name:            row.Name,
		EventID:         row.EventID,
		CotisationID:    row.CotisationID,
		CreatedAt:       parseTime(row.CreatedAt),
	}
}

// CreatePayment inserts a new payment record and fills in the generated ID.
func (s *BillingStore) CreatePayment(ctx context.Context, p *billing.Payment) error {
	row := paymentRow{
		StripePaymentID: p.StripePaymentID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          p.Status,
		Email:           p.Email,
		Name:            p.Name,
		EventID:         p.EventID,
		CotisationID:    p.CotisationID,
	}

	var results []paymentRow
	data, _, err := s.client.sb.From(paymentsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		p.ID = results[0].ID
		p.CreatedAt = parseTime(results[0].CreatedAt)
	}

	return nil
}

// GetPaymentByID retrieves a payment by ID. Returns nil, nil if not found.
func (s *BillingStore) GetPaymentByID(ctx context.Context, id int64) (*billing.Payment, error) {
	return s.getPayment(ctx, "pay_id", strconv.FormatInt(id, 10))
}

// GetPaymentByStripeID retrieves a payment by its Stripe payment intent ID.
// Returns nil, nil if not found.
func (s *BillingStore) GetPaymentByStripeID(ctx context.Context, stripeID string) (*billing.Payment, error) {
	return s.getPayment(ctx, "pay_stripe_id", stripeID)
}

func (s *BillingStore) getPayment(ctx context.Context, column, value string) (*billing.Payment, error) {
	data, _, err := s.client.sb.From(paymentsTable).Select("*", "exact", false).Eq(column, value).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching payment: %w", err)
	}

	var rows []paymentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing payment: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToPayment(&rows[0]), nil
}

// ListPayments retrieves all payments, newest first.
func (s *BillingStore) ListPayments(ctx context.Context) ([]*billing.Payment, error) {
	data, _, err := s.client.sb.From(paymentsTable).
		Select("*", "exact", false).
		Order("pay_creation_time", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}

	var rows []paymentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing payment list: %w", err)
	}

	payments := make([]*billing.Payment, len(rows))
	for i, row := range rows {
		payments[i] = rowToPayment(&row)
	}

	return payments, nil
}

// CreateCotisation inserts a new cotisation and fills in the generated ID.
func (s *BillingStore) CreateCotisation(ctx context.Context, c *billing.Cotisation) error {
	row := cotisationRow{
		Type:     c.Type,
		Amount:   c.Amount,
		MemberID: c.MemberID,
	}

	var results []cotisationRow
	data, _, err := s.client.sb.From(cotisationsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting cotisation: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		c.ID = results[0].ID
	}

	return nil
}

// GetCotisationByID retrieves a cotisation by ID. Returns nil, nil if not found.
func (s *BillingStore) GetCotisationByID(ctx context.Context, id int64) (*billing.Cotisation, error) {
	data, _, err := s.client.sb.From(cotisationsTable).Select("*", "exact", false).Eq("cot_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching cotisation: %w", err)
	}

	var rows []cotisationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing cotisation: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return &billing.Cotisation{ID: rows[0].ID, Type: rows[0].Type, Amount: rows[0].Amount, MemberID: rows[0].MemberID}, nil
}

// UpdateCotisation persists changes to an existing cotisation.
func (s *BillingStore) UpdateCotisation(ctx context.Context, c *billing.Cotisation) error {
	update := map[string]any{
		"cot_type":   c.Type,
		"cot_amount": c.Amount,
	}

	_, _, err := s.client.sb.From(cotisationsTable).Update(update, "", "").Eq("cot_id", strconv.FormatInt(c.ID, 10)).Execute()
	if err != nil {
		return fmt.Errorf("updating cotisation: %w", err)
	}

	return nil
}

// DeleteCotisation removes a cotisation by ID.
func (s *BillingStore) DeleteCotisation(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(cotisationsTable).Delete("", "").Eq("cot_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting cotisation: %w", err)
	}
	return nil
}

// ListCotisations retrieves all cotisations.
func (s *BillingStore) ListCotisations(ctx context.Context) ([]*billing.Cotisation, error) {
	data, _, err := s.client.sb.From(cotisationsTable).
		Select("*", "exact", false).
		Order("cot_id", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing cotisations: %w", err)
	}

	var rows []cotisationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing cotisation list: %w", err)
	}

	cotisations := make([]*billing.Cotisation, len(rows))
	for i, row := range rows {
		cotisations[i] = &billing.Cotisation{ID: row.ID, Type: row.Type, Amount: row.Amount, MemberID: row.MemberID}
	}

	return cotisations, nil
}

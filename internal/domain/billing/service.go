package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"iyffa/internal/common"
	"iyffa/internal/domain/event"
	"iyffa/internal/domain/mailer"
	"iyffa/internal/domain/member"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Only CHF donations and fees are accepted.
const currencyCHF = "chf"

// Config holds the Stripe keys.
type Config struct {
	SecretKey     string
	WebhookSecret string
}

// Notifier enqueues transactional emails. Satisfied by *mailer.Service.
type Notifier interface {
	Enqueue(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error)
}

// MemberReader resolves a member for renewal notices. Satisfied by *member.Service.
type MemberReader interface {
	Get(ctx context.Context, id int64) (*member.Member, error)
}

// EventReader resolves an event for ticket confirmations. Satisfied by *event.Service.
type EventReader interface {
	Get(ctx context.Context, id int64) (*event.Event, error)
}

// Service orchestrates Stripe payments and membership fees.
type Service struct {
	config      Config
	payments    PaymentStore
	cotisations CotisationStore
	notifier    Notifier
	members     MemberReader
	events      EventReader
	baseURL     string
}

// NewService creates the billing service and sets the global Stripe API key.
func NewService(cfg Config, payments PaymentStore, cotisations CotisationStore, notifier Notifier, members MemberReader, events EventReader, baseURL string) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{
		config:      cfg,
		payments:    payments,
		cotisations: cotisations,
		notifier:    notifier,
		members:     members,
		events:      events,
		baseURL:     baseURL,
	}
}

// CreateIntent creates a Stripe PaymentIntent and returns its client secret.
// Amounts are in CHF; Stripe wants cents.
func (s *Service) CreateIntent(ctx context.Context, req *CreateIntentRequest) (*IntentResponse, error) {
	if req.Currency != "" && strings.ToLower(req.Currency) != currencyCHF {
		return nil, common.NewValidationError("only CHF currency is supported")
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(math.Round(req.Amount * 100))),
		Currency:           stripe.String(currencyCHF),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		ReceiptEmail:       stripe.String(req.Email),
	}
	params.AddMetadata("name", req.Name)
	params.AddMetadata("email", req.Email)
	if req.EventID != nil {
		if _, err := s.events.Get(ctx, *req.EventID); err != nil {
			return nil, err
		}
		params.AddMetadata("event_id", strconv.FormatInt(*req.EventID, 10))
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, common.NewProviderError("stripe", "creating payment intent: "+err.Error())
	}

	slog.Info("payment intent created", "intent_id", intent.ID, "amount", req.Amount)
	return &IntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// HandleWebhook verifies and processes a Stripe webhook event.
// Unknown event types are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	ev, err := webhook.ConstructEvent(payload, sigHeader, s.config.WebhookSecret)
	if err != nil {
		return common.NewUnauthorizedError("invalid webhook signature")
	}

	switch ev.Type {
	case "payment_intent.succeeded":
		return s.handlePaymentSucceeded(ctx, ev)
	default:
		slog.Info("ignoring webhook event", "type", ev.Type)
		return nil
	}
}

func (s *Service) handlePaymentSucceeded(ctx context.Context, ev stripe.Event) error {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &intent); err != nil {
		return fmt.Errorf("unmarshaling payment intent: %w", err)
	}

	// Stripe retries webhooks; an already-recorded intent is done.
	existing, err := s.payments.GetPaymentByStripeID(ctx, intent.ID)
	if err != nil {
		return fmt.Errorf("checking existing payment: %w", err)
	}
	if existing != nil {
		slog.Info("payment already recorded", "intent_id", intent.ID)
		return nil
	}

	p := &Payment{
		StripePaymentID: intent.ID,
		Amount:          float64(intent.Amount) / 100,
		Currency:        currencyCHF,
		Status:          PaymentStatusSucceeded,
		Email:           intent.ReceiptEmail,
		Name:            intent.Metadata["name"],
	}

	var eventID int64
	if raw := intent.Metadata["event_id"]; raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			eventID = id
			p.EventID = &id
		}
	}

	if err := s.payments.CreatePayment(ctx, p); err != nil {
		return fmt.Errorf("recording payment: %w", err)
	}
	slog.Info("payment recorded", "payment_id", p.ID, "intent_id", intent.ID, "amount", p.Amount)

	if s.notifier == nil || p.Email == "" {
		return nil
	}

	// An event payment gets a ticket confirmation, anything else a
	// donation receipt. Both are best-effort: the payment row is the
	// source of truth either way.
	if eventID != 0 && s.events != nil {
		s.sendTicketConfirmation(ctx, p, eventID)
	} else {
		s.sendDonationReceipt(ctx, p)
	}

	return nil
}

func (s *Service) sendTicketConfirmation(ctx context.Context, p *Payment, eventID int64) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		slog.Error("failed to resolve event for ticket", "event_id", eventID, "error", err)
		s.sendDonationReceipt(ctx, p)
		return
	}

	_, err = s.notifier.Enqueue(ctx, &mailer.SendRequest{
		Type: mailer.TypeEventTicket,
		To:   p.Email,
		Data: map[string]any{
			"FirstName":     p.Name,
			"EventTitle":    e.Title,
			"EventDate":     e.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
			"EventLocation": e.Location,
			"Price":         fmt.Sprintf("%.2f", p.Amount),
			"Currency":      "CHF",
		},
		IdempotencyKey: "event-ticket-" + p.StripePaymentID,
	})
	if err != nil {
		slog.Error("failed to enqueue ticket confirmation", "intent_id", p.StripePaymentID, "error", err)
	}
}

func (s *Service) sendDonationReceipt(ctx context.Context, p *Payment) {
	_, err := s.notifier.Enqueue(ctx, &mailer.SendRequest{
		Type: mailer.TypeDonationReceipt,
		To:   p.Email,
		Data: map[string]any{
			"Name":      p.Name,
			"Amount":    fmt.Sprintf("%.2f", p.Amount),
			"Currency":  "CHF",
			"Date":      time.Now().Format("2 January 2006"),
			"Reference": p.StripePaymentID,
			"Monthly":   false,
		},
		IdempotencyKey: "donation-receipt-" + p.StripePaymentID,
	})
	if err != nil {
		slog.Error("failed to enqueue donation receipt", "intent_id", p.StripePaymentID, "error", err)
	}
}

// GetPayment retrieves a payment by ID.
func (s *Service) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	p, err := s.payments.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching payment: %w", err)
	}
	if p == nil {
		return nil, common.NewNotFoundError("payment", strconv.FormatInt(id, 10))
	}
	return p, nil
}

// ListPayments retrieves all payments, newest first.
func (s *Service) ListPayments(ctx context.Context) ([]*Payment, error) {
	payments, err := s.payments.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return payments, nil
}

// CreateCotisation records a membership fee and sends the renewal notice.
func (s *Service) CreateCotisation(ctx context.Context, req *CotisationRequest) (*Cotisation, error) {
	m, err := s.members.Get(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	c := &Cotisation{
		Type:     req.Type,
		Amount:   req.Amount,
		MemberID: req.MemberID,
	}
	if err := s.cotisations.CreateCotisation(ctx, c); err != nil {
		return nil, fmt.Errorf("creating cotisation: %w", err)
	}
	slog.Info("cotisation recorded", "cotisation_id", c.ID, "member_id", c.MemberID)

	if s.notifier != nil {
		_, err := s.notifier.Enqueue(ctx, &mailer.SendRequest{
			Type: mailer.TypeMembershipRenewal,
			To:   m.Email,
			Data: map[string]any{
				"FirstName":      m.FirstName,
				"MembershipType": c.Type,
				"Amount":         fmt.Sprintf("%.2f", c.Amount),
				"Currency":       "CHF",
				"AccountURL":     s.baseURL + "/account",
			},
			IdempotencyKey: "membership-renewal-" + strconv.FormatInt(c.ID, 10),
		})
		if err != nil {
			slog.Error("failed to enqueue renewal notice", "cotisation_id", c.ID, "error", err)
		}
	}

	return c, nil
}

// GetCotisation retrieves a cotisation by ID.
func (s *Service) GetCotisation(ctx context.Context, id int64) (*Cotisation, error) {
	c, err := s.cotisations.GetCotisationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching cotisation: %w", err)
	}
	if c == nil {
		return nil, common.NewNotFoundError("cotisation", strconv.FormatInt(id, 10))
	}
	return c, nil
}

// ListCotisations retrieves all cotisations.
func (s *Service) ListCotisations(ctx context.Context) ([]*Cotisation, error) {
	cotisations, err := s.cotisations.ListCotisations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cotisations: %w", err)
	}
	return cotisations, nil
}

// UpdateCotisation applies a partial update to a cotisation.
func (s *Service) UpdateCotisation(ctx context.Context, id int64, req *CotisationUpdateRequest) (*Cotisation, error) {
	c, err := s.GetCotisation(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, common.NewValidationError("amount must be positive")
		}
		c.Amount = *req.Amount
	}

	if err := s.cotisations.UpdateCotisation(ctx, c); err != nil {
		return nil, fmt.Errorf("updating cotisation: %w", err)
	}
	return c, nil
}

// DeleteCotisation removes a cotisation.
func (s *Service) DeleteCotisation(ctx context.Context, id int64) error {
	if _, err := s.GetCotisation(ctx, id); err != nil {
		return err
	}
	if err := s.cotisations.DeleteCotisation(ctx, id); err != nil {
		return fmt.Errorf("deleting cotisation: %w", err)
	}
	slog.Info("cotisation deleted", "cotisation_id", id)
	return nil
}

package billing

import "context"

// PaymentStore defines the contract for persisting payments.
// Implementations live in infra/store/ (Supabase).
type PaymentStore interface {
	// CreatePayment inserts a new payment record and fills in the generated ID.
	CreatePayment(ctx context.Context, p *Payment) error

	// GetPaymentByID retrieves a payment by ID. Returns nil, nil if not found.
	GetPaymentByID(ctx context.Context, id int64) (*Payment, error)

	// GetPaymentByStripeID retrieves a payment by its Stripe payment intent ID.
	// Returns nil, nil if not found. Used for webhook idempotency.
	GetPaymentByStripeID(ctx context.Context, stripeID string) (*Payment, error)

	// ListPayments retrieves all payments, newest first.
	ListPayments(ctx context.Context) ([]*Payment, error)
}

// CotisationStore defines the contract for persisting membership fees.
type CotisationStore interface {
	// CreateCotisation inserts a new cotisation and fills in the generated ID.
	CreateCotisation(ctx context.Context, c *Cotisation) error

	// GetCotisationByID retrieves a cotisation by ID. Returns nil, nil if not found.
	GetCotisationByID(ctx context.Context, id int64) (*Cotisation, error)

	// UpdateCotisation persists changes to an existing cotisation.
	UpdateCotisation(ctx context.Context, c *Cotisation) error

	// DeleteCotisation removes a cotisation by ID.
	DeleteCotisation(ctx context.Context, id int64) error

	// ListCotisations retrieves all cotisations.
	ListCotisations(ctx context.Context) ([]*Cotisation, error)
}

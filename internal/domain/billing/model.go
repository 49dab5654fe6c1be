package billing

import "time"

// Payment statuses mirror the Stripe payment intent lifecycle states we record.
const (
	PaymentStatusSucceeded = "succeeded"
)

// Payment represents a recorded Stripe payment (table ifa_payment).
type Payment struct {
	ID              int64     `json:"id"`
	StripePaymentID string    `json:"stripe_payment_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	EventID         *int64    `json:"event_id,omitempty"`
	CotisationID    *int64    `json:"cotisation_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Cotisation represents a membership fee record (table ifa_cotisation).
type Cotisation struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	MemberID int64   `json:"member_id"`
}

// CreateIntentRequest is the payload for creating a Stripe payment intent.
// Currency is optional and defaults to CHF; any other value is rejected.
type CreateIntentRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency"`
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	EventID  *int64  `json:"event_id"`
}

// IntentResponse carries the client secret back to the payment form.
type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CotisationRequest is the payload for recording a membership fee.
type CotisationRequest struct {
	Type     string  `json:"type" binding:"required,max=45"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	MemberID int64   `json:"member_id" binding:"required"`
}

// CotisationUpdateRequest is the payload for editing a membership fee record.
// Pointer fields distinguish "not provided" from zero values.
type CotisationUpdateRequest struct {
	Type   *string  `json:"type"`
	Amount *float64 `json:"amount"`
}

package mailer

// MailType enumerates all transactional email templates the association sends.
type MailType string

const (
	TypeWelcome           MailType = "welcome"
	TypePasswordReset     MailType = "password_reset"
	TypeEventReminder     MailType = "event_reminder"
	TypeEventTicket       MailType = "event_ticket"
	TypeDonationReceipt   MailType = "donation_receipt"
	TypeMembershipRenewal MailType = "membership_renewal"
)

// validTypes is the set of all recognized mail types.
var validTypes = map[MailType]bool{
	TypeWelcome:           true,
	TypePasswordReset:     true,
	TypeEventReminder:     true,
	TypeEventTicket:       true,
	TypeDonationReceipt:   true,
	TypeMembershipRenewal: true,
}

// IsValidType checks whether a mail type is recognized.
func IsValidType(t MailType) bool {
	return validTypes[t]
}

// SendRequest is the payload for enqueuing a transactional email.
type SendRequest struct {
	Type           MailType       `json:"type" binding:"required"`
	To             string         `json:"to" binding:"required,email"`
	Data           map[string]any `json:"data"`
	IdempotencyKey string         `json:"idempotency_key"`
}

// SendResponse is returned after an email is accepted for delivery.
type SendResponse struct {
	ID             string `json:"id"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	Status         string `json:"status"`
}

// Message is the internal rendered message ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

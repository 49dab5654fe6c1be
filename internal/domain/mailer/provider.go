package mailer

import "context"

// Provider defines the contract for an email delivery transport.
// Implementations live in infra/email/ (Resend).
type Provider interface {
	// Send delivers a rendered message and returns the provider's message ID.
	Send(ctx context.Context, msg *Message) (string, error)
}

// TemplateRenderer defines the contract for rendering transactional email templates.
// Implementations live in infra/template/.
type TemplateRenderer interface {
	// Render produces a subject line, HTML body, and plain-text body for the given mail type.
	Render(mailType MailType, data map[string]any) (subject, html, text string, err error)
}

// RecipientRateLimiter defines the contract for per-recipient rate limiting.
// Implementations live in infra/ratelimit/.
type RecipientRateLimiter interface {
	// Allow checks whether an email can be sent to the given recipient.
	// Returns true if the send is allowed, false if rate limited.
	Allow(ctx context.Context, recipient string) (bool, error)
}

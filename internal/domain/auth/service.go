package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"iyffa/internal/common"
	"iyffa/internal/domain/mailer"
	"iyffa/internal/domain/member"

	"golang.org/x/crypto/bcrypt"
)

// Notifier enqueues transactional emails. Satisfied by *mailer.Service.
type Notifier interface {
	Enqueue(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error)
}

// Service orchestrates authentication: login with optional TOTP second
// factor, token refresh, and the password reset flow.
type Service struct {
	members  member.Store
	tokens   *TokenManager
	notifier Notifier
	baseURL  string
}

// NewService creates a new auth service.
func NewService(members member.Store, tokens *TokenManager, notifier Notifier, baseURL string) *Service {
	return &Service{
		members:  members,
		tokens:   tokens,
		notifier: notifier,
		baseURL:  baseURL,
	}
}

// LoginResult is either a token pair or an OTP challenge when the member
// has a second factor enabled.
type LoginResult struct {
	OTPRequired bool       `json:"otp_required"`
	MemberType  string     `json:"member_type,omitempty"`
	Tokens      *TokenPair `json:"tokens,omitempty"`
}

// Login authenticates with email and password. When 2FA is enabled the
// caller must follow up with VerifyOTP to obtain tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	m, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("fetching member: %w", err)
	}
	// Same error for unknown email and wrong password, so nothing leaks.
	if m == nil || bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, common.NewUnauthorizedError("invalid credentials")
	}
	if !m.Status {
		return nil, common.NewForbiddenError("account is disabled")
	}

	if m.OTPEnabled {
		return &LoginResult{OTPRequired: true, MemberType: m.Type}, nil
	}

	pair, err := s.tokens.IssuePair(m.ID, m.Type)
	if err != nil {
		return nil, err
	}

	slog.Info("member logged in", "member_id", m.ID)
	return &LoginResult{MemberType: m.Type, Tokens: pair}, nil
}

// VerifyOTP completes a 2FA login by checking the TOTP code.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	m, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("fetching member: %w", err)
	}
	if m == nil {
		return nil, common.NewNotFoundError("member", email)
	}
	if !m.OTPEnabled || m.OTPSecret == "" {
		return nil, common.NewValidationError("2FA is not enabled for this account")
	}

	if !VerifyTOTP(m.OTPSecret, code, time.Now()) {
		return nil, common.NewUnauthorizedError("invalid OTP")
	}

	pair, err := s.tokens.IssuePair(m.ID, m.Type)
	if err != nil {
		return nil, err
	}

	slog.Info("member completed 2FA login", "member_id", m.ID)
	return &LoginResult{MemberType: m.Type, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, KindRefresh)
	if err != nil {
		return nil, err
	}

	// Re-read the member so a disabled account can't keep refreshing.
	m, err := s.members.GetByID(ctx, claims.MemberID)
	if err != nil {
		return nil, fmt.Errorf("fetching member: %w", err)
	}
	if m == nil || !m.Status {
		return nil, common.NewUnauthorizedError("account is no longer active")
	}

	return s.tokens.IssuePair(m.ID, m.Type)
}

// Enable2FA generates and stores a TOTP secret for the member. The secret
// is returned once so it can be shown as a QR code; it is never exposed again.
func (s *Service) Enable2FA(ctx context.Context, memberID int64) (string, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return "", fmt.Errorf("fetching member: %w", err)
	}
	if m == nil {
		return "", common.NewNotFoundError("member", fmt.Sprintf("%d", memberID))
	}
	if m.OTPEnabled {
		return "", common.NewValidationError("2FA is already enabled")
	}

	secret, err := GenerateTOTPSecret()
	if err != nil {
		return "", err
	}

	m.OTPEnabled = true
	m.OTPSecret = secret
	if err := s.members.Update(ctx, m); err != nil {
		return "", fmt.Errorf("storing totp secret: %w", err)
	}

	slog.Info("2FA enabled", "member_id", m.ID)
	return secret, nil
}

// Disable2FA removes the member's second factor.
func (s *Service) Disable2FA(ctx context.Context, memberID int64) error {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("fetching member: %w", err)
	}
	if m == nil {
		return common.NewNotFoundError("member", fmt.Sprintf("%d", memberID))
	}
	if !m.OTPEnabled {
		return common.NewValidationError("2FA is not enabled")
	}

	m.OTPEnabled = false
	m.OTPSecret = ""
	if err := s.members.Update(ctx, m); err != nil {
		return fmt.Errorf("clearing totp secret: %w", err)
	}

	slog.Info("2FA disabled", "member_id", m.ID)
	return nil
}

// RequestPasswordReset issues a reset token and emails the reset link.
// Always succeeds from the caller's perspective so the endpoint can't be
// used to probe which emails exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	m, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("fetching member: %w", err)
	}
	if m == nil {
		slog.Info("password reset requested for unknown email")
		return nil
	}

	token, err := s.tokens.IssueResetToken(m.ID)
	if err != nil {
		return err
	}

	_, err = s.notifier.Enqueue(ctx, &mailer.SendRequest{
		Type: mailer.TypePasswordReset,
		To:   m.Email,
		Data: map[string]any{
			"FirstName": m.FirstName,
			"ResetURL":  s.baseURL + "/reset-password?token=" + token,
			"ExpiryMin": int(resetTokenTTL.Minutes()),
		},
	})
	if err != nil {
		return fmt.Errorf("enqueuing password reset email: %w", err)
	}

	slog.Info("password reset email enqueued", "member_id", m.ID)
	return nil
}

// ConfirmPasswordReset validates a reset token and sets the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Parse(token, KindReset)
	if err != nil {
		return err
	}
	if len(newPassword) < 8 {
		return common.NewValidationError("password must be at least 8 characters")
	}

	m, err := s.members.GetByID(ctx, claims.MemberID)
	if err != nil {
		return fmt.Errorf("fetching member: %w", err)
	}
	if m == nil {
		return common.NewNotFoundError("member", fmt.Sprintf("%d", claims.MemberID))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	m.PasswordHash = string(hash)
	if err := s.members.Update(ctx, m); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	slog.Info("password reset completed", "member_id", m.ID)
	return nil
}

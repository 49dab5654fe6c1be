package auth

import (
	"fmt"
	"time"

	"iyffa/internal/common"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds. A refresh token can't be used as an access token and vice
// versa; reset tokens are only valid for the password reset confirmation.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
	KindReset   = "reset"
)

// resetTokenTTL bounds how long a password reset link stays valid.
const resetTokenTTL = 30 * time.Minute

// Claims are the JWT claims carried by all token kinds.
type Claims struct {
	MemberID   int64  `json:"mid"`
	MemberType string `json:"mtyp"`
	Kind       string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager creates a new token manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// TokenPair is an access/refresh token pair issued on successful authentication.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssuePair issues a fresh access/refresh pair for a member.
func (m *TokenManager) IssuePair(memberID int64, memberType string) (*TokenPair, error) {
	access, err := m.sign(memberID, memberType, KindAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(memberID, memberType, KindRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueResetToken issues a short-lived token for a password reset link.
func (m *TokenManager) IssueResetToken(memberID int64) (string, error) {
	return m.sign(memberID, "", KindReset, resetTokenTTL)
}

func (m *TokenManager) sign(memberID int64, memberType, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		MemberID:   memberID,
		MemberType: memberType,
		Kind:       kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "iyffa",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token and returns the member identity.
// Satisfies middleware.TokenVerifier.
func (m *TokenManager) VerifyAccess(tokenString string) (int64, string, error) {
	claims, err := m.Parse(tokenString, KindAccess)
	if err != nil {
		return 0, "", err
	}
	return claims.MemberID, claims.MemberType, nil
}

// Parse verifies a token's signature and expiry and returns its claims.
// The expected kind must match; a refresh token presented where an access
// token is required is rejected.
func (m *TokenManager) Parse(tokenString, expectedKind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, common.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, common.NewUnauthorizedError("invalid token claims")
	}
	if claims.Kind != expectedKind {
		return nil, common.NewUnauthorizedError(fmt.Sprintf("expected %s token", expectedKind))
	}

	return claims, nil
}

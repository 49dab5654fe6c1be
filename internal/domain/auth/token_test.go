package auth

import (
	"testing"
	"time"

	"iyffa/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestIssuePairRoundTrip(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	memberID, memberType, err := m.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), memberID)
	assert.Equal(t, "admin", memberType)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	m := newTestManager()

	pair, err := m.IssuePair(1, "user")
	require.NoError(t, err)

	_, _, err = m.VerifyAccess(pair.Refresh)
	var uerr *common.UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	pair, err := newTestManager().IssuePair(1, "user")
	require.NoError(t, err)

	other := NewTokenManager("another-secret", 15*time.Minute, time.Hour)
	_, _, err = other.VerifyAccess(pair.Access)

	var uerr *common.UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, time.Hour)

	pair, err := m.IssuePair(1, "user")
	require.NoError(t, err)

	_, _, err = m.VerifyAccess(pair.Access)
	require.Error(t, err)
}

func TestResetTokenKind(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueResetToken(7)
	require.NoError(t, err)

	claims, err := m.Parse(token, KindReset)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.MemberID)

	// A reset token must not pass as an access token.
	_, _, err = m.VerifyAccess(token)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, _, err := newTestManager().VerifyAccess("not.a.jwt")
	require.Error(t, err)
}

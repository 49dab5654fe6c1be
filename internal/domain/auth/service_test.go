package auth

import (
	"context"
	"testing"
	"time"

	"iyffa/internal/common"
	"iyffa/internal/domain/mailer"
	"iyffa/internal/domain/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeMemberStore is an in-memory member.Store for tests.
type fakeMemberStore struct {
	members map[int64]*member.Member
	nextID  int64
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: make(map[int64]*member.Member)}
}

func (f *fakeMemberStore) Create(ctx context.Context, m *member.Member) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeMemberStore) GetByID(ctx context.Context, id int64) (*member.Member, error) {
	if m, ok := f.members[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMemberStore) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	for _, m := range f.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberStore) Update(ctx context.Context, m *member.Member) error {
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeMemberStore) Delete(ctx context.Context, id int64) error {
	delete(f.members, id)
	return nil
}

func (f *fakeMemberStore) List(ctx context.Context) ([]*member.Member, error) {
	var out []*member.Member
	for _, m := range f.members {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeMemberStore) Count(ctx context.Context) (int, error) {
	return len(f.members), nil
}

func (f *fakeMemberStore) CountByType(ctx context.Context, memberType string) (int, error) {
	n := 0
	for _, m := range f.members {
		if m.Type == memberType {
			n++
		}
	}
	return n, nil
}

// fakeNotifier captures enqueued mail requests.
type fakeNotifier struct {
	requests []*mailer.SendRequest
}

func (f *fakeNotifier) Enqueue(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error) {
	f.requests = append(f.requests, req)
	return &mailer.SendResponse{ID: "log-1", Status: string(mailer.StatusQueued)}, nil
}

func seedMember(t *testing.T, store *fakeMemberStore, email, password string) *member.Member {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	m := &member.Member{
		Email:        email,
		FirstName:    "Alice",
		LastName:     "Keller",
		Type:         member.TypeUser,
		Status:       true,
		PasswordHash: string(hash),
	}
	require.NoError(t, store.Create(context.Background(), m))
	return m
}

func newTestService(store *fakeMemberStore, notifier Notifier) *Service {
	tokens := NewTokenManager("test-secret", 15*time.Minute, time.Hour)
	return NewService(store, tokens, notifier, "https://iyffa.org")
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeMemberStore()
	seedMember(t, store, "alice@example.com", "s3cret-pass")
	svc := newTestService(store, &fakeNotifier{})

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, result.OTPRequired)
	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.Access)
	assert.NotEmpty(t, result.Tokens.Refresh)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	store := newFakeMemberStore()
	seedMember(t, store, "alice@example.com", "s3cret-pass")
	svc := newTestService(store, &fakeNotifier{})

	_, errWrongPass := svc.Login(context.Background(), "alice@example.com", "wrong")
	_, errNoUser := svc.Login(context.Background(), "bob@example.com", "whatever")

	var u1, u2 *common.UnauthorizedError
	require.ErrorAs(t, errWrongPass, &u1)
	require.ErrorAs(t, errNoUser, &u2)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error(), "must not leak which field was wrong")
}

func TestLoginDisabledAccount(t *testing.T) {
	store := newFakeMemberStore()
	m := seedMember(t, store, "alice@example.com", "s3cret-pass")
	m.Status = false
	require.NoError(t, store.Update(context.Background(), m))

	svc := newTestService(store, &fakeNotifier{})
	_, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")

	var ferr *common.ForbiddenError
	require.ErrorAs(t, err, &ferr)
}

func TestLoginWithOTPRequiresSecondFactor(t *testing.T) {
	store := newFakeMemberStore()
	m := seedMember(t, store, "alice@example.com", "s3cret-pass")

	secret, err := GenerateTOTPSecret()
	require.NoError(t, err)
	m.OTPEnabled = true
	m.OTPSecret = secret
	require.NoError(t, store.Update(context.Background(), m))

	svc := newTestService(store, &fakeNotifier{})

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, result.OTPRequired)
	assert.Nil(t, result.Tokens, "no tokens before the second factor")

	// Completing the challenge with a valid code issues tokens.
	code := totpCode(secret, time.Now())
	verified, err := svc.VerifyOTP(context.Background(), "alice@example.com", code)
	require.NoError(t, err)
	require.NotNil(t, verified.Tokens)

	// A wrong code is rejected.
	_, err = svc.VerifyOTP(context.Background(), "alice@example.com", "000000")
	var uerr *common.UnauthorizedError
	if err == nil {
		t.Fatal("expected invalid OTP to be rejected")
	}
	require.ErrorAs(t, err, &uerr)
}

func TestRefreshRejectsDisabledMember(t *testing.T) {
	store := newFakeMemberStore()
	m := seedMember(t, store, "alice@example.com", "s3cret-pass")
	svc := newTestService(store, &fakeNotifier{})

	result, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	m.Status = false
	require.NoError(t, store.Update(context.Background(), m))

	_, err = svc.Refresh(context.Background(), result.Tokens.Refresh)
	var uerr *common.UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

func TestEnable2FAStoresSecret(t *testing.T) {
	store := newFakeMemberStore()
	m := seedMember(t, store, "alice@example.com", "s3cret-pass")
	svc := newTestService(store, &fakeNotifier{})

	secret, err := svc.Enable2FA(context.Background(), m.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, secret)

	stored, _ := store.GetByID(context.Background(), m.ID)
	assert.True(t, stored.OTPEnabled)
	assert.Equal(t, secret, stored.OTPSecret)

	// Enabling twice is an error.
	_, err = svc.Enable2FA(context.Background(), m.ID)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, svc.Disable2FA(context.Background(), m.ID))
	stored, _ = store.GetByID(context.Background(), m.ID)
	assert.False(t, stored.OTPEnabled)
	assert.Empty(t, stored.OTPSecret)
}

func TestRequestPasswordResetSendsMail(t *testing.T) {
	store := newFakeMemberStore()
	seedMember(t, store, "alice@example.com", "s3cret-pass")
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))

	require.Len(t, notifier.requests, 1)
	req := notifier.requests[0]
	assert.Equal(t, mailer.TypePasswordReset, req.Type)
	assert.Equal(t, "alice@example.com", req.To)
	assert.Contains(t, req.Data["ResetURL"], "https://iyffa.org/reset-password?token=")
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeMemberStore(), notifier)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, notifier.requests, "unknown emails must not trigger mail")
}

func TestConfirmPasswordReset(t *testing.T) {
	store := newFakeMemberStore()
	m := seedMember(t, store, "alice@example.com", "s3cret-pass")
	svc := newTestService(store, &fakeNotifier{})

	token, err := svc.tokens.IssueResetToken(m.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token, "new-password-1"))

	// Old password no longer works, new one does.
	_, err = svc.Login(context.Background(), "alice@example.com", "s3cret-pass")
	require.Error(t, err)
	_, err = svc.Login(context.Background(), "alice@example.com", "new-password-1")
	require.NoError(t, err)

	// An access token is not a valid reset token.
	pair, err := svc.tokens.IssuePair(m.ID, m.Type)
	require.NoError(t, err)
	err = svc.ConfirmPasswordReset(context.Background(), pair.Access, "another-password")
	require.Error(t, err)
}

package member

import (
	"context"
	"testing"

	"iyffa/internal/common"
	"iyffa/internal/domain/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	members map[int64]*Member
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{members: make(map[int64]*Member)}
}

func (f *fakeStore) Create(ctx context.Context, m *Member) error {
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Member, error) {
	if m, ok := f.members[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*Member, error) {
	for _, m := range f.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Update(ctx context.Context, m *Member) error {
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.members, id)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]*Member, error) {
	var out []*Member
	for _, m := range f.members {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.members), nil
}

func (f *fakeStore) CountByType(ctx context.Context, memberType string) (int, error) {
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

// fixedCounter returns a constant count.
type fixedCounter int

func (c fixedCounter) Count(ctx context.Context) (int, error) { return int(c), nil }

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:       "alice@example.com",
		Password:    "s3cret-pass",
		FirstName:   "Alice",
		LastName:    "Keller",
		CGUAccepted: true,
	}
}

func TestRegisterHashesPasswordAndSendsWelcome(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, "https://iyffa.org", nil, nil, nil)

	m, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, TypeUser, m.Type)
	assert.True(t, m.Status)

	// Password stored as a bcrypt hash, never in the clear.
	assert.NotEqual(t, "s3cret-pass", m.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte("s3cret-pass")))

	require.Len(t, notifier.requests, 1)
	req := notifier.requests[0]
	assert.Equal(t, mailer.TypeWelcome, req.Type)
	assert.Equal(t, "alice@example.com", req.To)
	assert.Equal(t, "Alice", req.Data["FirstName"])
	assert.Equal(t, "https://iyffa.org/login", req.Data["LoginURL"])
	assert.NotEmpty(t, req.IdempotencyKey)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeNotifier{}, "https://iyffa.org", nil, nil, nil)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	var cerr *common.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestUpdateRejectsUnknownType(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeNotifier{}, "https://iyffa.org", nil, nil, nil)

	m, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	bad := "superadmin"
	_, err = svc.Update(context.Background(), m.ID, &UpdateRequest{Type: &bad})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	good := TypeAdmin
	updated, err := svc.Update(context.Background(), m.ID, &UpdateRequest{Type: &good})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())
}

func TestGetUnknownMember(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeNotifier{}, "https://iyffa.org", nil, nil, nil)

	_, err := svc.Get(context.Background(), 999)
	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestStatsAggregatesCounters(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeNotifier{}, "https://iyffa.org",
		fixedCounter(3), fixedCounter(5), fixedCounter(2))

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalMembers)
	assert.Equal(t, 1, stats.TotalRegularUsers)
	assert.Equal(t, 3, stats.TotalArticles)
	assert.Equal(t, 5, stats.TotalEvents)
	assert.Equal(t, 2, stats.TotalProjects)
}

func TestDeleteMember(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeNotifier{}, "https://iyffa.org", nil, nil, nil)

	m, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), m.ID))

	_, err = svc.Get(context.Background(), m.ID)
	require.Error(t, err)
}

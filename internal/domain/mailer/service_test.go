package mailer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"iyffa/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory MailStore for tests.
type fakeStore struct {
	mu      sync.Mutex
	logs    map[string]*MailLog
	nextID  int
	failOn  string // method name that should return an error
	updates []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: make(map[string]*MailLog)}
}

func (f *fakeStore) Create(ctx context.Context, log *MailLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "Create" {
		return errors.New("store down")
	}
	f.nextID++
	log.ID = fmt.Sprintf("log-%d", f.nextID)
	log.CreatedAt = time.Now()
	log.UpdatedAt = time.Now()
	f.logs[log.ID] = log
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*MailLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logs[id], nil
}

func (f *fakeStore) GetByIdempotencyKey(ctx context.Context, key string) (*MailLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "GetByIdempotencyKey" {
		return nil, errors.New("store down")
	}
	for _, log := range f.logs {
		if log.IdempotencyKey == key {
			return log, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id string, status Status, providerID, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, fmt.Sprintf("%s:%s", id, status))
	if log, ok := f.logs[id]; ok {
		log.Status = status
		if providerID != "" {
			log.ProviderID = providerID
		}
		if errMsg != "" {
			log.ErrorMessage = errMsg
		}
	}
	return nil
}

func (f *fakeStore) UpdateWebhookStatus(ctx context.Context, providerID string, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, log := range f.logs {
		if log.ProviderID == providerID {
			log.Status = status
		}
	}
	return nil
}

func (f *fakeStore) List(ctx context.Context, filter ListFilter) ([]*MailLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*MailLog
	for _, log := range f.logs {
		out = append(out, log)
	}
	return out, len(out), nil
}

func (f *fakeStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]*MailLog, error) {
	return nil, nil
}

// fakeEnqueuer records enqueued log IDs.
type fakeEnqueuer struct {
	ids  []string
	fail bool
}

func (f *fakeEnqueuer) EnqueueSendMail(logID string) error {
	if f.fail {
		return errors.New("queue down")
	}
	f.ids = append(f.ids, logID)
	return nil
}

// fakeLimiter returns a fixed allow decision.
type fakeLimiter struct {
	allow bool
	err   error
}

func (f *fakeLimiter) Allow(ctx context.Context, recipient string) (bool, error) {
	return f.allow, f.err
}

func validRequest() *SendRequest {
	return &SendRequest{
		Type: TypeWelcome,
		To:   "alice@example.com",
		Data: map[string]any{"FirstName": "Alice", "LoginURL": "https://iyffa.org/login"},
	}
}

func TestEnqueueCreatesQueuedLog(t *testing.T) {
	store := newFakeStore()
	enq := &fakeEnqueuer{}
	svc := NewService(store, enq, &fakeLimiter{allow: true})

	resp, err := svc.Enqueue(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(StatusQueued), resp.Status)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, enq.ids, 1)
	assert.Equal(t, resp.ID, enq.ids[0])
}

func TestEnqueueRejectsUnknownType(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEnqueuer{}, &fakeLimiter{allow: true})

	_, err := svc.Enqueue(context.Background(), &SendRequest{
		Type: "carrier_pigeon",
		To:   "alice@example.com",
	})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEnqueueIdempotency(t *testing.T) {
	store := newFakeStore()
	enq := &fakeEnqueuer{}
	svc := NewService(store, enq, &fakeLimiter{allow: true})

	req := validRequest()
	req.IdempotencyKey = "welcome-42"

	first, err := svc.Enqueue(context.Background(), req)
	require.NoError(t, err)

	second, err := svc.Enqueue(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, enq.ids, 1, "duplicate request must not enqueue a second task")
}

func TestEnqueueRateLimited(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEnqueuer{}, &fakeLimiter{allow: false})

	_, err := svc.Enqueue(context.Background(), validRequest())

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestEnqueueFailsOpenWhenLimiterErrors(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEnqueuer{}, &fakeLimiter{err: errors.New("redis down")})

	resp, err := svc.Enqueue(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(StatusQueued), resp.Status)
}

func TestEnqueueMarksFailedWhenQueueDown(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeEnqueuer{fail: true}, &fakeLimiter{allow: true})

	_, err := svc.Enqueue(context.Background(), validRequest())
	require.Error(t, err)

	logs, _, _ := store.List(context.Background(), ListFilter{})
	require.Len(t, logs, 1)
	assert.Equal(t, StatusFailed, logs[0].Status)
}

func TestGetMailNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEnqueuer{}, nil)

	_, err := svc.GetMail(context.Background(), "missing")

	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestHandleWebhookEventRequiresProviderID(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeEnqueuer{}, nil)

	err := svc.HandleWebhookEvent(context.Background(), "", StatusDelivered)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestHandleWebhookEventUpdatesStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeEnqueuer{}, &fakeLimiter{allow: true})

	resp, err := svc.Enqueue(context.Background(), validRequest())
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(context.Background(), resp.ID, StatusSent, "resend-1", ""))

	require.NoError(t, svc.HandleWebhookEvent(context.Background(), "resend-1", StatusDelivered))

	log, err := svc.GetMail(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, log.Status)
}

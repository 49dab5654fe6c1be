package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"iyffa/internal/common"
	"iyffa/internal/domain/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store and ImageStore for tests.
type fakeStore struct {
	events      map[int64]*Event
	images      map[int64]*Image
	nextEventID int64
	nextImageID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events: make(map[int64]*Event),
		images: make(map[int64]*Image),
	}
}

func (f *fakeStore) Create(ctx context.Context, e *Event) error {
	f.nextEventID++
	e.ID = f.nextEventID
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Event, error) {
	if e, ok := f.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) Update(ctx context.Context, e *Event) error {
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.events, id)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]*Event, error) {
	var out []*Event
	for _, e := range f.events {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.events), nil
}

func (f *fakeStore) CreateImage(ctx context.Context, img *Image) error {
	f.nextImageID++
	img.ID = f.nextImageID
	cp := *img
	f.images[img.ID] = &cp
	return nil
}

func (f *fakeStore) GetImageByID(ctx context.Context, id int64) (*Image, error) {
	if img, ok := f.images[id]; ok {
		cp := *img
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) ListImages(ctx context.Context, eventID int64) ([]*Image, error) {
	var out []*Image
	for _, img := range f.images {
		if img.EventID == eventID {
			cp := *img
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteImage(ctx context.Context, id int64) error {
	delete(f.images, id)
	return nil
}

// fakeNotifier captures enqueued mail requests.
type fakeNotifier struct {
	requests []*mailer.SendRequest
	failFor  string
}

func (f *fakeNotifier) Enqueue(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error) {
	if f.failFor != "" && req.To == f.failFor {
		return nil, errors.New("queue unavailable")
	}
	f.requests = append(f.requests, req)
	return &mailer.SendResponse{ID: "log-1", Status: string(mailer.StatusQueued)}, nil
}

// fakeDirectory returns a fixed recipient list.
type fakeDirectory struct {
	recipients []Recipient
}

func (f *fakeDirectory) ListActiveRecipients(ctx context.Context) ([]Recipient, error) {
	return f.recipients, nil
}

func createRequest() *CreateRequest {
	return &CreateRequest{
		Title:       "Summer Gala",
		Description: "Annual fundraising dinner.",
		StartsAt:    time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
		Location:    "Geneva",
		Price:       50,
	}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeStore(), nil, nil, "https://iyffa.org")

	req := createRequest()
	ends := req.StartsAt.Add(-time.Hour)
	req.EndsAt = &ends

	_, err := svc.Create(context.Background(), 1, req)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateOnlyOrganizerOrAdmin(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, store, nil, nil, "https://iyffa.org")

	e, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	newTitle := "Winter Gala"
	_, err = svc.Update(context.Background(), e.ID, 2, false, &UpdateRequest{Title: &newTitle})
	var ferr *common.ForbiddenError
	require.ErrorAs(t, err, &ferr)

	updated, err := svc.Update(context.Background(), e.ID, 2, true, &UpdateRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Winter Gala", updated.Title)
}

func TestImageLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, store, nil, nil, "https://iyffa.org")

	e, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	img, err := svc.AddImage(context.Background(), e.ID, 1, false, &AddImageRequest{
		URL:      "https://cdn.example.com/gala.jpg",
		Position: 1,
		Alt:      "Gala venue",
	})
	require.NoError(t, err)

	images, err := svc.ListImages(context.Background(), e.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)

	// Deleting through the wrong event is a not-found, not a cross-event delete.
	other, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)
	err = svc.DeleteImage(context.Background(), other.ID, img.ID, 1, false)
	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, svc.DeleteImage(context.Background(), e.ID, img.ID, 1, false))
}

func TestRemindBroadcastsToActiveMembers(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	directory := &fakeDirectory{recipients: []Recipient{
		{Email: "alice@example.com", FirstName: "Alice"},
		{Email: "bob@example.com", FirstName: "Bob"},
	}}
	svc := NewService(store, store, notifier, directory, "https://iyffa.org")

	e, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	sent, err := svc.Remind(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, notifier.requests, 2)
	req := notifier.requests[0]
	assert.Equal(t, mailer.TypeEventReminder, req.Type)
	assert.Equal(t, "Summer Gala", req.Data["EventTitle"])
	assert.Contains(t, req.Data["EventURL"], "https://iyffa.org/events/")
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.NotEqual(t, notifier.requests[0].IdempotencyKey, notifier.requests[1].IdempotencyKey)
}

func TestRemindSkipsFailedRecipients(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{failFor: "bob@example.com"}
	directory := &fakeDirectory{recipients: []Recipient{
		{Email: "alice@example.com", FirstName: "Alice"},
		{Email: "bob@example.com", FirstName: "Bob"},
	}}
	svc := NewService(store, store, notifier, directory, "https://iyffa.org")

	e, err := svc.Create(context.Background(), 1, createRequest())
	require.NoError(t, err)

	sent, err := svc.Remind(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sent, "one failed enqueue must not stop the broadcast")
}

func TestRemindUnknownEvent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, store, &fakeNotifier{}, &fakeDirectory{}, "https://iyffa.org")

	_, err := svc.Remind(context.Background(), 99)
	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)
}

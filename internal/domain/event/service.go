package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"iyffa/internal/common"
	"iyffa/internal/domain/mailer"
)

// Notifier enqueues transactional emails. Satisfied by *mailer.Service.
type Notifier interface {
	Enqueue(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error)
}

// Recipient is a member who should receive an event reminder.
type Recipient struct {
	Email     string
	FirstName string
}

// MemberDirectory lists the active members' contact details.
// Satisfied by the member store; keeps this package independent
// of the member domain.
type MemberDirectory interface {
	ListActiveRecipients(ctx context.Context) ([]Recipient, error)
}

// Service orchestrates event business logic.
type Service struct {
	store    Store
	images   ImageStore
	notifier Notifier
	members  MemberDirectory
	baseURL  string
}

// NewService creates a new event service. notifier and members feed the
// reminder broadcast; either may be nil, which disables reminders.
func NewService(store Store, images ImageStore, notifier Notifier, members MemberDirectory, baseURL string) *Service {
	return &Service{
		store:    store,
		images:   images,
		notifier: notifier,
		members:  members,
		baseURL:  baseURL,
	}
}

// Create creates a new event organized by the given member.
func (s *Service) Create(ctx context.Context, organizerID int64, req *CreateRequest) (*Event, error) {
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, common.NewValidationError("event must not end before it starts")
	}

	e := &Event{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		Price:       req.Price,
		OrganizerID: organizerID,
	}

	if err := s.store.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}

	slog.Info("event created", "event_id", e.ID, "organizer_id", organizerID)
	return e, nil
}

// Get retrieves an event by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching event: %w", err)
	}
	if e == nil {
		return nil, common.NewNotFoundError("event", strconv.FormatInt(id, 10))
	}
	return e, nil
}

// List retrieves all events ordered by start time.
func (s *Service) List(ctx context.Context) ([]*Event, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// Update applies a partial update. Only the organizer or an admin may edit.
func (s *Service) Update(ctx context.Context, id, memberID int64, isAdmin bool, req *UpdateRequest) (*Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.OrganizerID != memberID && !isAdmin {
		return nil, common.NewForbiddenError("only the organizer may edit this event")
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		e.EndsAt = req.EndsAt
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, common.NewValidationError("price must not be negative")
		}
		e.Price = *req.Price
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return nil, common.NewValidationError("event must not end before it starts")
	}

	if err := s.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return e, nil
}

// Delete removes an event. Only the organizer or an admin may delete.
// Attached images are removed by the database cascade.
func (s *Service) Delete(ctx context.Context, id, memberID int64, isAdmin bool) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.OrganizerID != memberID && !isAdmin {
		return common.NewForbiddenError("only the organizer may delete this event")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	slog.Info("event deleted", "event_id", id)
	return nil
}

// AddImage attaches an image to an event.
func (s *Service) AddImage(ctx context.Context, eventID, memberID int64, isAdmin bool, req *AddImageRequest) (*Image, error) {
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.OrganizerID != memberID && !isAdmin {
		return nil, common.NewForbiddenError("only the organizer may attach images")
	}

	img := &Image{
		URL:      req.URL,
		Position: req.Position,
		Alt:      req.Alt,
		EventID:  eventID,
	}
	if err := s.images.CreateImage(ctx, img); err != nil {
		return nil, fmt.Errorf("creating image: %w", err)
	}
	return img, nil
}

// ListImages retrieves all images attached to an event, ordered by position.
func (s *Service) ListImages(ctx context.Context, eventID int64) ([]*Image, error) {
	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}
	images, err := s.images.ListImages(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	return images, nil
}

// DeleteImage removes an image from an event.
func (s *Service) DeleteImage(ctx context.Context, eventID, imageID, memberID int64, isAdmin bool) error {
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if e.OrganizerID != memberID && !isAdmin {
		return common.NewForbiddenError("only the organizer may remove images")
	}

	img, err := s.images.GetImageByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("fetching image: %w", err)
	}
	if img == nil || img.EventID != eventID {
		return common.NewNotFoundError("image", strconv.FormatInt(imageID, 10))
	}

	if err := s.images.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

// Remind broadcasts the event reminder email to all active members.
// Returns the number of reminders enqueued. Each recipient gets an
// idempotency key scoped to the event, so re-running the broadcast
// doesn't double-send.
func (s *Service) Remind(ctx context.Context, eventID int64) (int, error) {
	if s.notifier == nil || s.members == nil {
		return 0, common.NewValidationError("reminders are not configured")
	}

	e, err := s.Get(ctx, eventID)
	if err != nil {
		return 0, err
	}

	recipients, err := s.members.ListActiveRecipients(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing reminder recipients: %w", err)
	}

	sent := 0
	for _, r := range recipients {
		_, err := s.notifier.Enqueue(ctx, &mailer.SendRequest{
			Type: mailer.TypeEventReminder,
			To:   r.Email,
			Data: map[string]any{
				"FirstName":     r.FirstName,
				"EventTitle":    e.Title,
				"EventDate":     e.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
				"EventLocation": e.Location,
				"EventURL":      fmt.Sprintf("%s/events/%d", s.baseURL, e.ID),
			},
			IdempotencyKey: fmt.Sprintf("event-reminder-%d-%s", e.ID, r.Email),
		})
		if err != nil {
			slog.Error("failed to enqueue event reminder", "event_id", e.ID, "recipient", r.Email, "error", err)
			continue
		}
		sent++
	}

	slog.Info("event reminders enqueued", "event_id", e.ID, "count", sent)
	return sent, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"iyffa/internal/domain/event"

	"github.com/supabase-community/postgrest-go"
)

const (
	eventsTable = "ifa_event"
	imagesTable = "ifa_image"
)

var (
	_ event.Store      = (*EventStore)(nil)
	_ event.ImageStore = (*EventStore)(nil)
)

// EventStore implements event.Store and event.ImageStore on Supabase.
type EventStore struct {
	client *Client
}

// NewEventStore creates a Supabase-backed event store.
func NewEventStore(client *Client) *EventStore {
	return &EventStore{client: client}
}

// eventRow is the PostgREST representation of an ifa_event record.
type eventRow struct {
	ID          int64   `json:"eve_id,omitempty"`
	Title       string  `json:"eve_title"`
	Description string  `json:"eve_description"`
	StartsAt    string  `json:"eve_start_time"`
	EndsAt      *string `json:"eve_end_time,omitempty"`
	Location    string  `json:"eve_location"`
	Price       float64 `json:"eve_price"`
	OrganizerID int64   `json:"usr_id"`
}

// imageRow is the PostgREST representation of an ifa_image record.
type imageRow struct {
	ID       int64  `json:"img_id,omitempty"`
	URL      string `json:"img_url"`
	Position int    `json:"img_position"`
	Alt      string `json:"img_alt,omitempty"`
	EventID  int64  `json:"eve_id"`
}

func eventToRow(e *event.Event) eventRow {
	row := eventRow{
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    formatTime(e.StartsAt),
		Location:    e.Location,
		Price:       e.Price,
		OrganizerID: e.OrganizerID,
	}
	if e.EndsAt != nil {
		ends := formatTime(*e.EndsAt)
		row.EndsAt = &ends
	}
	return row
}

func rowToEvent(row *eventRow) *event.Event {
	return &event.Event{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		StartsAt:    parseTime(row.StartsAt),
		EndsAt:      parseTimePtr(row.EndsAt),
		Location:    row.Location,
		Price:       row.Price,
		OrganizerID: row.OrganizerID,
	}
}

// Create inserts a new event and fills in the generated ID.
func (s *EventStore) Create(ctx context.Context, e *event.Event) error {
	row := eventToRow(e)

	var results []eventRow
	data, _, err := s.client.sb.From(eventsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		e.ID = results[0].ID
	}

	return nil
}

// GetByID retrieves an event by ID. Returns nil, nil if not found.
func (s *EventStore) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	data, _, err := s.client.sb.From(eventsTable).Select("*", "exact", false).Eq("eve_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching event: %w", err)
	}

	var rows []eventRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing event: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToEvent(&rows[0]), nil
}

// Update persists changes to an existing event.
func (s *EventStore) Update(ctx context.Context, e *event.Event) error {
	row := eventToRow(e)
	update := map[string]any{
		"eve_title":       row.Title,
		"eve_description": row.Description,
		"eve_start_time":  row.StartsAt,
		"eve_end_time":    row.EndsAt,
		"eve_location":    row.Location,
		"eve_price":       row.Price,
	}

	_, _, err := s.client.sb.From(eventsTable).Update(update, "", "").Eq("eve_id", strconv.FormatInt(e.ID, 10)).Execute()
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	return nil
}

// Delete removes an event by ID.
func (s *EventStore) Delete(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(eventsTable).Delete("", "").Eq("eve_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// List retrieves all events ordered by start time.
func (s *EventStore) List(ctx context.Context) ([]*event.Event, error) {
	data, _, err := s.client.sb.From(eventsTable).
		Select("*", "exact", false).
		Order("eve_start_time", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	var rows []eventRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing event list: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = rowToEvent(&row)
	}

	return events, nil
}

// Count returns the total number of events.
func (s *EventStore) Count(ctx context.Context) (int, error) {
	_, count, err := s.client.sb.From(eventsTable).Select("eve_id", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return int(count), nil
}

// CreateImage inserts a new image and fills in the generated ID.
func (s *EventStore) CreateImage(ctx context.Context, img *event.Image) error {
	row := imageRow{
		URL:      img.URL,
		Position: img.Position,
		Alt:      img.Alt,
		EventID:  img.EventID,
	}

	var results []imageRow
	data, _, err := s.client.sb.From(imagesTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting image: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		img.ID = results[0].ID
	}

	return nil
}

// GetImageByID retrieves an image by ID. Returns nil, nil if not found.
func (s *EventStore) GetImageByID(ctx context.Context, id int64) (*event.Image, error) {
	data, _, err := s.client.sb.From(imagesTable).Select("*", "exact", false).Eq("img_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}

	var rows []imageRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing image: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToImage(&rows[0]), nil
}

// ListImages retrieves all images attached to an event, ordered by position.
func (s *EventStore) ListImages(ctx context.Context, eventID int64) ([]*event.Image, error) {
	data, _, err := s.client.sb.From(imagesTable).
		Select("*", "exact", false).
		Eq("eve_id", strconv.FormatInt(eventID, 10)).
		Order("img_position", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}

	var rows []imageRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing image list: %w", err)
	}

	images := make([]*event.Image, len(rows))
	for i, row := range rows {
		images[i] = rowToImage(&row)
	}

	return images, nil
}

// DeleteImage removes an image by ID.
func (s *EventStore) DeleteImage(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(imagesTable).Delete("", "").Eq("img_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

func rowToImage(row *imageRow) *event.Image {
	return &event.Image{
		ID:       row.ID,
		URL:      row.URL,
		Position: row.Position,
		Alt:      row.Alt,
		EventID:  row.EventID,
	}
}

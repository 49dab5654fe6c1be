package event

import "context"

// Store defines the contract for persisting events.
// Implementations live in infra/store/ (Supabase).
type Store interface {
	// Create inserts a new event and fills in the generated ID.
	Create(ctx context.Context, e *Event) error

	// GetByID retrieves an event by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*Event, error)

	// Update persists changes to an existing event.
	Update(ctx context.Context, e *Event) error

	// Delete removes an event by ID.
	Delete(ctx context.Context, id int64) error

	// List retrieves all events ordered by start time.
	List(ctx context.Context) ([]*Event, error)

	// Count returns the total number of events.
	Count(ctx context.Context) (int, error)
}

// ImageStore defines the contract for persisting event images.
type ImageStore interface {
	// CreateImage inserts a new image and fills in the generated ID.
	CreateImage(ctx context.Context, img *Image) error

	// GetImageByID retrieves an image by ID. Returns nil, nil if not found.
	GetImageByID(ctx context.Context, id int64) (*Image, error)

	// ListImages retrieves all images attached to an event, ordered by position.
	ListImages(ctx context.Context, eventID int64) ([]*Image, error)

	// DeleteImage removes an image by ID.
	DeleteImage(ctx context.Context, id int64) error
}

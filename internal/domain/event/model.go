package event

import "time"

// Event represents an association event (table ifa_event).
type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Location    string     `json:"location"`
	Price       float64    `json:"price"`
	OrganizerID int64      `json:"organizer_id"`
}

// Image is a picture attached to an event (table ifa_image).
// Position orders the gallery; Alt is the accessibility text.
type Image struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Position int    `json:"position"`
	Alt      string `json:"alt,omitempty"`
	EventID  int64  `json:"event_id"`
}

// CreateRequest is the payload for creating an event.
type CreateRequest struct {
	Title       string     `json:"title" binding:"required,max=45"`
	Description string     `json:"description" binding:"required"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    string     `json:"location" binding:"required,max=255"`
	Price       float64    `json:"price" binding:"min=0"`
}

// UpdateRequest is the payload for editing an event.
// Pointer fields distinguish "not provided" from zero values.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    *string    `json:"location"`
	Price       *float64   `json:"price"`
}

// AddImageRequest attaches an image to an event.
type AddImageRequest struct {
	URL      string `json:"url" binding:"required,url,max=255"`
	Position int    `json:"position" binding:"min=0"`
	Alt      string `json:"alt"`
}

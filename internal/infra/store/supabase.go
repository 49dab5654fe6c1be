package store

import (
	"fmt"
	"time"

	supa "github.com/supabase-community/supabase-go"
)

// Client wraps the Supabase SDK client shared by all aggregate stores.
type Client struct {
	sb *supa.Client
}

// NewClient creates a Supabase client from the project URL and service key.
func NewClient(supabaseURL, serviceKey string) (*Client, error) {
	sb, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &Client{sb: sb}, nil
}

// parseTime parses a PostgREST timestamp, returning the zero time on failure.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseTimePtr parses an optional PostgREST timestamp.
func parseTimePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}

// formatTime renders a timestamp the way PostgREST expects.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

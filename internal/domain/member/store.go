package member

import "context"

// Store defines the contract for persisting members.
// Implementations live in infra/store/ (Supabase).
type Store interface {
	// Create inserts a new member and fills in the generated ID.
	Create(ctx context.Context, m *Member) error

	// GetByID retrieves a member by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*Member, error)

	// GetByEmail retrieves a member by email. Returns nil, nil if not found.
	GetByEmail(ctx context.Context, email string) (*Member, error)

	// Update persists changes to an existing member.
	Update(ctx context.Context, m *Member) error

	// Delete removes a member by ID.
	Delete(ctx context.Context, id int64) error

	// List retrieves all members ordered by creation time.
	List(ctx context.Context) ([]*Member, error)

	// Count returns the total number of members.
	Count(ctx context.Context) (int, error)

	// CountByType returns the number of members with the given type.
	CountByType(ctx context.Context, memberType string) (int, error)
}

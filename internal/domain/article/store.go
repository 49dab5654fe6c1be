package article

import "context"

// Store defines the contract for persisting articles.
// Implementations live in infra/store/ (Supabase).
type Store interface {
	// Create inserts a new article and fills in the generated ID.
	Create(ctx context.Context, a *Article) error

	// GetByID retrieves an article by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*Article, error)

	// Update persists changes to an existing article.
	Update(ctx context.Context, a *Article) error

	// Delete removes an article by ID.
	Delete(ctx context.Context, id int64) error

	// List retrieves all articles, newest first.
	List(ctx context.Context) ([]*Article, error)

	// Count returns the total number of articles.
	Count(ctx context.Context) (int, error)
}

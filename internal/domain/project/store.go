package project

import "context"

// Store defines the contract for persisting projects.
// Implementations live in infra/store/ (Supabase).
type Store interface {
	// Create inserts a new project and fills in the generated ID.
	Create(ctx context.Context, p *Project) error

	// GetByID retrieves a project by ID. Returns nil, nil if not found.
	GetByID(ctx context.Context, id int64) (*Project, error)

	// Update persists changes to an existing project.
	Update(ctx context.Context, p *Project) error

	// Delete removes a project by ID.
	Delete(ctx context.Context, id int64) error

	// List retrieves all projects.
	List(ctx context.Context) ([]*Project, error)

	// Count returns the total number of projects.
	Count(ctx context.Context) (int, error)
}

// DocumentStore defines the contract for persisting project documents.
type DocumentStore interface {
	// CreateDocument inserts a new document and fills in the generated ID.
	CreateDocument(ctx context.Context, d *Document) error

	// GetDocumentByID retrieves a document by ID. Returns nil, nil if not found.
	GetDocumentByID(ctx context.Context, id int64) (*Document, error)

	// ListDocuments retrieves all documents attached to a project.
	ListDocuments(ctx context.Context, projectID int64) ([]*Document, error)

	// DeleteDocument removes a document by ID.
	DeleteDocument(ctx context.Context, id int64) error
}

package project

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"iyffa/internal/common"
)

// Service orchestrates project business logic.
type Service struct {
	store Store
	docs  DocumentStore
}

// NewService creates a new project service.
func NewService(store Store, docs DocumentStore) *Service {
	return &Service{store: store, docs: docs}
}

// Create creates a new project owned by the given member.
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateRequest) (*Project, error) {
	p := &Project{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		OwnerID:     ownerID,
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	slog.Info("project created", "project_id", p.ID, "owner_id", ownerID)
	return p, nil
}

// Get retrieves a project by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Project, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching project: %w", err)
	}
	if p == nil {
		return nil, common.NewNotFoundError("project", strconv.FormatInt(id, 10))
	}
	return p, nil
}

// List retrieves all projects.
func (s *Service) List(ctx context.Context) ([]*Project, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial update. Only the owner or an admin may edit.
func (s *Service) Update(ctx context.Context, id, memberID int64, isAdmin bool, req *UpdateRequest) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != memberID && !isAdmin {
		return nil, common.NewForbiddenError("only the owner may edit this project")
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return nil, common.NewValidationError("budget must not be negative")
		}
		p.Budget = *req.Budget
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Delete removes a project. Only the owner or an admin may delete.
// Attached documents are removed by the database cascade.
func (s *Service) Delete(ctx context.Context, id, memberID int64, isAdmin bool) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != memberID && !isAdmin {
		return common.NewForbiddenError("only the owner may delete this project")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	slog.Info("project deleted", "project_id", id)
	return nil
}

// AddDocument attaches a document URL to a project.
func (s *Service) AddDocument(ctx context.Context, projectID, memberID int64, isAdmin bool, req *AddDocumentRequest) (*Document, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != memberID && !isAdmin {
		return nil, common.NewForbiddenError("only the owner may attach documents")
	}

	d := &Document{
		URL:       req.URL,
		ProjectID: projectID,
	}
	if err := s.docs.CreateDocument(ctx, d); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	return d, nil
}

// ListDocuments retrieves all documents attached to a project.
func (s *Service) ListDocuments(ctx context.Context, projectID int64) ([]*Document, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	docs, err := s.docs.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document from a project.
func (s *Service) DeleteDocument(ctx context.Context, projectID, docID, memberID int64, isAdmin bool) error {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID != memberID && !isAdmin {
		return common.NewForbiddenError("only the owner may remove documents")
	}

	d, err := s.docs.GetDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("fetching document: %w", err)
	}
	if d == nil || d.ProjectID != projectID {
		return common.NewNotFoundError("document", strconv.FormatInt(docID, 10))
	}

	if err := s.docs.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

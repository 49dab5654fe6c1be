package article

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"iyffa/internal/common"
)

// Service orchestrates article business logic.
type Service struct {
	store Store
}

// NewService creates a new article service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create publishes a new article authored by the given member.
func (s *Service) Create(ctx context.Context, authorID int64, req *CreateRequest) (*Article, error) {
	a := &Article{
		Title:    req.Title,
		Text:     req.Text,
		AuthorID: authorID,
	}

	if err := s.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}

	slog.Info("article created", "article_id", a.ID, "author_id", authorID)
	return a, nil
}

// Get retrieves an article by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Article, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}
	if a == nil {
		return nil, common.NewNotFoundError("article", strconv.FormatInt(id, 10))
	}
	return a, nil
}

// List retrieves all articles, newest first.
func (s *Service) List(ctx context.Context) ([]*Article, error) {
	articles, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return articles, nil
}

// Update applies a partial update. Only the author or an admin may edit.
func (s *Service) Update(ctx context.Context, id, memberID int64, isAdmin bool, req *UpdateRequest) (*Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != memberID && !isAdmin {
		return nil, common.NewForbiddenError("only the author may edit this article")
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Text != nil {
		a.Text = *req.Text
	}

	if err := s.store.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("updating article: %w", err)
	}
	return a, nil
}

// Delete removes an article. Only the author or an admin may delete.
func (s *Service) Delete(ctx context.Context, id, memberID int64, isAdmin bool) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if a.AuthorID != memberID && !isAdmin {
		return common.NewForbiddenError("only the author may delete this article")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	slog.Info("article deleted", "article_id", id)
	return nil
}

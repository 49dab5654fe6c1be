package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"iyffa/internal/domain/article"

	"github.com/supabase-community/postgrest-go"
)

const articlesTable = "ifa_article"

var _ article.Store = (*ArticleStore)(nil)

// ArticleStore implements article.Store on Supabase.
type ArticleStore struct {
	client *Client
}

// NewArticleStore creates a Supabase-backed article store.
func NewArticleStore(client *Client) *ArticleStore {
	return &ArticleStore{client: client}
}

// articleRow is the PostgREST representation of an ifa_article record.
type articleRow struct {
	ID        int64  `json:"art_id,omitempty"`
	Title     string `json:"art_title"`
	Text      string `json:"art_text"`
	AuthorID  int64  `json:"usr_id"`
	CreatedAt string `json:"art_creation_time,omitempty"`
}

func rowToArticle(row *articleRow) *article.Article {
	return &article.Article{
		ID:        row.ID,
		Title:     row.Title,
		Text:      row.Text,
		AuthorID:  row.AuthorID,
		CreatedAt: parseTime(row.CreatedAt),
	}
}

// Create inserts a new article and fills in the generated ID.
func (s *ArticleStore) Create(ctx context.Context, a *article.Article) error {
	row := articleRow{
		Title:    a.Title,
		Text:     a.Text,
		AuthorID: a.AuthorID,
	}

	var results []articleRow
	data, _, err := s.client.sb.From(articlesTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		a.ID = results[0].ID
		a.CreatedAt = parseTime(results[0].CreatedAt)
	}

	return nil
}

// GetByID retrieves an article by ID. Returns nil, nil if not found.
func (s *ArticleStore) GetByID(ctx context.Context, id int64) (*article.Article, error) {
	data, _, err := s.client.sb.From(articlesTable).Select("*", "exact", false).Eq("art_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}

	var rows []articleRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing article: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToArticle(&rows[0]), nil
}

// Update persists changes to an existing article.
func (s *ArticleStore) Update(ctx context.Context, a *article.Article) error {
	update := map[string]any{
		"art_title": a.Title,
		"art_text":  a.Text,
	}

	_, _, err := s.client.sb.From(articlesTable).Update(update, "", "").Eq("art_id", strconv.FormatInt(a.ID, 10)).Execute()
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}

	return nil
}

// Delete removes an article by ID.
func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(articlesTable).Delete("", "").Eq("art_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	return nil
}

// List retrieves all articles, newest first.
func (s *ArticleStore) List(ctx context.Context) ([]*article.Article, error) {
	data, _, err := s.client.sb.From(articlesTable).
		Select("*", "exact", false).
		Order("art_creation_time", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	var rows []articleRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing article list: %w", err)
	}

	articles := make([]*article.Article, len(rows))
	for i, row := range rows {
		articles[i] = rowToArticle(&row)
	}

	return articles, nil
}

// Count returns the total number of articles.
func (s *ArticleStore) Count(ctx context.Context) (int, error) {
	_, count, err := s.client.sb.From(articlesTable).Select("art_id", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return int(count), nil
}

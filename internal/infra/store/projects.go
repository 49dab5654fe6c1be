package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"iyffa/internal/domain/project"

	"github.com/supabase-community/postgrest-go"
)

const (
	projectsTable  = "ifa_project"
	documentsTable = "ifa_document"
)

var (
	_ project.Store         = (*ProjectStore)(nil)
	_ project.DocumentStore = (*ProjectStore)(nil)
)

// ProjectStore implements project.Store and project.DocumentStore on Supabase.
type ProjectStore struct {
	client *Client
}

// NewProjectStore creates a Supabase-backed project store.
func NewProjectStore(client *Client) *ProjectStore {
	return &ProjectStore{client: client}
}

// projectRow is the PostgREST representation of an ifa_project record.
type projectRow struct {
	ID          int64   `json:"pro_id,omitempty"`
	Title       string  `json:"pro_title"`
	Description string  `json:"pro_description"`
	Budget      float64 `json:"pro_budget"`
	OwnerID     int64   `json:"usr_id"`
}

// documentRow is the PostgREST representation of an ifa_document record.
type documentRow struct {
	ID        int64  `json:"doc_id,omitempty"`
	URL       string `json:"doc_url"`
	ProjectID int64  `json:"pro_id"`
}

func rowToProject(row *projectRow) *project.Project {
	return &project.Project{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Budget:      row.Budget,
		OwnerID:     row.OwnerID,
	}
}

// Create inserts a new project and fills in the generated ID.
func (s *ProjectStore) Create(ctx context.Context, p *project.Project) error {
	row := projectRow{
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		OwnerID:     p.OwnerID,
	}

	var results []projectRow
	data, _, err := s.client.sb.From(projectsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		p.ID = results[0].ID
	}

	return nil
}

// GetByID retrieves a project by ID. Returns nil, nil if not found.
func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	data, _, err := s.client.sb.From(projectsTable).Select("*", "exact", false).Eq("pro_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching project: %w", err)
	}

	var rows []projectRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rowToProject(&rows[0]), nil
}

// Update persists changes to an existing project.
func (s *ProjectStore) Update(ctx context.Context, p *project.Project) error {
	update := map[string]any{
		"pro_title":       p.Title,
		"pro_description": p.Description,
		"pro_budget":      p.Budget,
	}

	_, _, err := s.client.sb.From(projectsTable).Update(update, "", "").Eq("pro_id", strconv.FormatInt(p.ID, 10)).Execute()
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	return nil
}

// Delete removes a project by ID.
func (s *ProjectStore) Delete(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(projectsTable).Delete("", "").Eq("pro_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// List retrieves all projects.
func (s *ProjectStore) List(ctx context.Context) ([]*project.Project, error) {
	data, _, err := s.client.sb.From(projectsTable).
		Select("*", "exact", false).
		Order("pro_id", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var rows []projectRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing project list: %w", err)
	}

	projects := make([]*project.Project, len(rows))
	for i, row := range rows {
		projects[i] = rowToProject(&row)
	}

	return projects, nil
}

// Count returns the total number of projects.
func (s *ProjectStore) Count(ctx context.Context) (int, error) {
	_, count, err := s.client.sb.From(projectsTable).Select("pro_id", "exact", true).Execute()
	if err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return int(count), nil
}

// CreateDocument inserts a new document and fills in the generated ID.
func (s *ProjectStore) CreateDocument(ctx context.Context, d *project.Document) error {
	row := documentRow{
		URL:       d.URL,
		ProjectID: d.ProjectID,
	}

	var results []documentRow
	data, _, err := s.client.sb.From(documentsTable).Insert(row, false, "", "representation", "").Execute()
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parsing insert response: %w", err)
	}

	if len(results) > 0 {
		d.ID = results[0].ID
	}

	return nil
}

// GetDocumentByID retrieves a document by ID. Returns nil, nil if not found.
func (s *ProjectStore) GetDocumentByID(ctx context.Context, id int64) (*project.Document, error) {
	data, _, err := s.client.sb.From(documentsTable).Select("*", "exact", false).Eq("doc_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching document: %w", err)
	}

	var rows []documentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return &project.Document{ID: rows[0].ID, URL: rows[0].URL, ProjectID: rows[0].ProjectID}, nil
}

// ListDocuments retrieves all documents attached to a project.
func (s *ProjectStore) ListDocuments(ctx context.Context, projectID int64) ([]*project.Document, error) {
	data, _, err := s.client.sb.From(documentsTable).
		Select("*", "exact", false).
		Eq("pro_id", strconv.FormatInt(projectID, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	var rows []documentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing document list: %w", err)
	}

	docs := make([]*project.Document, len(rows))
	for i, row := range rows {
		docs[i] = &project.Document{ID: row.ID, URL: row.URL, ProjectID: row.ProjectID}
	}

	return docs, nil
}

// DeleteDocument removes a document by ID.
func (s *ProjectStore) DeleteDocument(ctx context.Context, id int64) error {
	_, _, err := s.client.sb.From(documentsTable).Delete("", "").Eq("doc_id", strconv.FormatInt(id, 10)).Execute()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

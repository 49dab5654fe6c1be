package project

import (
	"context"
	"testing"

	"iyffa/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store and DocumentStore for tests.
type fakeStore struct {
	projects  map[int64]*Project
	documents map[int64]*Document
	nextProj  int64
	nextDoc   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:  make(map[int64]*Project),
		documents: make(map[int64]*Document),
	}
}

func (f *fakeStore) Create(ctx context.Context, p *Project) error {
	f.nextProj++
	p.ID = f.nextProj
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Project, error) {
	if p, ok := f.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) Update(ctx context.Context, p *Project) error {
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]*Project, error) {
	var out []*Project
	for _, p := range f.projects {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.projects), nil
}

func (f *fakeStore) CreateDocument(ctx context.Context, d *Document) error {
	f.nextDoc++
	d.ID = f.nextDoc
	cp := *d
	f.documents[d.ID] = &cp
	return nil
}

func (f *fakeStore) GetDocumentByID(ctx context.Context, id int64) (*Document, error) {
	if d, ok := f.documents[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) ListDocuments(ctx context.Context, projectID int64) ([]*Document, error) {
	var out []*Document
	for _, d := range f.documents {
		if d.ProjectID == projectID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteDocument(ctx context.Context, id int64) error {
	delete(f.documents, id)
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, store), store
}

func TestUpdateOnlyOwnerOrAdmin(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), 5, &CreateRequest{Title: "Youth camp", Description: "Summer camp 2026", Budget: 12000})
	require.NoError(t, err)

	newBudget := 15000.0
	_, err = svc.Update(context.Background(), p.ID, 6, false, &UpdateRequest{Budget: &newBudget})
	var ferr *common.ForbiddenError
	require.ErrorAs(t, err, &ferr)

	updated, err := svc.Update(context.Background(), p.ID, 5, false, &UpdateRequest{Budget: &newBudget})
	require.NoError(t, err)
	assert.Equal(t, 15000.0, updated.Budget)
}

func TestUpdateRejectsNegativeBudget(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), 5, &CreateRequest{Title: "Youth camp", Description: "Summer camp 2026"})
	require.NoError(t, err)

	bad := -1.0
	_, err = svc.Update(context.Background(), p.ID, 5, false, &UpdateRequest{Budget: &bad})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDocumentLifecycle(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), 5, &CreateRequest{Title: "Youth camp", Description: "Summer camp 2026"})
	require.NoError(t, err)

	// Non-owners may not attach documents.
	_, err = svc.AddDocument(context.Background(), p.ID, 6, false, &AddDocumentRequest{URL: "https://files.example.com/budget.pdf"})
	var ferr *common.ForbiddenError
	require.ErrorAs(t, err, &ferr)

	d, err := svc.AddDocument(context.Background(), p.ID, 5, false, &AddDocumentRequest{URL: "https://files.example.com/budget.pdf"})
	require.NoError(t, err)

	docs, err := svc.ListDocuments(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// A document can only be deleted through its own project.
	other, err := svc.Create(context.Background(), 5, &CreateRequest{Title: "Other", Description: "Other project"})
	require.NoError(t, err)
	err = svc.DeleteDocument(context.Background(), other.ID, d.ID, 5, false)
	var nf *common.NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, svc.DeleteDocument(context.Background(), p.ID, d.ID, 5, false))
}

package project

// Project represents an association project (table ifa_project).
type Project struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	OwnerID     int64   `json:"owner_id"`
}

// Document is a file reference attached to a project (table ifa_document).
type Document struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	ProjectID int64  `json:"project_id"`
}

// CreateRequest is the payload for creating a project.
type CreateRequest struct {
	Title       string  `json:"title" binding:"required,max=45"`
	Description string  `json:"description" binding:"required"`
	Budget      float64 `json:"budget" binding:"min=0"`
}

// UpdateRequest is the payload for editing a project.
// Pointer fields distinguish "not provided" from zero values.
type UpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget"`
}

// AddDocumentRequest attaches a document URL to a project.
type AddDocumentRequest struct {
	URL string `json:"url" binding:"required,url,max=255"`
}

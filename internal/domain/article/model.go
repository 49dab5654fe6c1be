package article

import "time"

// Article represents a news article (table ifa_article).
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the payload for publishing an article.
type CreateRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Text  string `json:"text" binding:"required"`
}

// UpdateRequest is the payload for editing an article.
// Pointer fields distinguish "not provided" from zero values.
type UpdateRequest struct {
	Title *string `json:"title"`
	Text  *string `json:"text"`
}

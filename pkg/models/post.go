package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog post owned by exactly one tenant. AuthorID and DateCreated
// are fixed at creation; updates only ever touch Title and Content.
type Post struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	Title       string    `db:"title"        json:"title"`
	Content     string    `db:"content"      json:"content"`
	AuthorID    string    `db:"author_id"    json:"-"`
	DateCreated time.Time `db:"date_created" json:"createdAt"`
}

const (
	MaxTitleLength    = 200
	MaxAuthorIDLength = 100
)

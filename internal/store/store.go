package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

// ErrNotFound covers both a missing row and a row owned by another author.
// Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// PostRepository is the tenant-scoped data access interface for posts.
// Every read is filtered by author; unscoped lookups stay inside this package.
type PostRepository interface {
	Ping(ctx context.Context) error

	AddAndSave(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByIDAndAuthor(ctx context.Context, id uuid.UUID, authorID string) (*models.Post, error)
	GetByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)

	NewUnitOfWork() UnitOfWork
}

// UnitOfWork accumulates staged writes and applies them atomically on Save.
//
// Staged writes are not visible to any read until Save returns nil. Reads
// never flush pending work. A unit of work that is dropped without Save, or
// whose Save sees a cancelled context, commits nothing.
type UnitOfWork interface {
	Add(post *models.Post)
	Update(post *models.Post)
	Remove(post *models.Post)
	Save(ctx context.Context) error
	Pending() int
}

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

// GetByIDUnscoped exposes the internal primary-key lookup to tests.
func (s *PostgresStore) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getByID(ctx, id)
}

// Package posts maps requests onto tenant-owned posts and runs the
// tenant-scoped CRUD workflow.
package posts

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

// ToEntity builds a new post owned by the caller. It fails with
// ErrUnauthorized, before anything touches storage, when the caller has no
// usable tenant id.
func ToEntity(req CreatePostRequest, uc auth.UserContext) (*models.Post, error) {
	tenantID, ok := currentTenant(uc)
	if !ok {
		return nil, ErrUnauthorized
	}
	return &models.Post{
		ID:          uuid.New(),
		Title:       req.Title,
		Content:     req.Content,
		AuthorID:    tenantID,
		DateCreated: time.Now().UTC(),
	}, nil
}

// ApplyUpdate copies the mutable fields of req onto post. ID, AuthorID and
// DateCreated are left as they are.
func ApplyUpdate(post *models.Post, req UpdatePostRequest) {
	post.Title = req.Title
	post.Content = req.Content
}

// currentTenant treats an empty id the same as a missing one.
func currentTenant(uc auth.UserContext) (string, bool) {
	if uc == nil {
		return "", false
	}
	id, ok := uc.CurrentUserID()
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

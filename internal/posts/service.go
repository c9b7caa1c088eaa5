package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/internal/store"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

// Service runs post CRUD on behalf of the tenant resolved from a UserContext.
// It only reaches storage through author-scoped repository calls.
type Service struct {
	repo store.PostRepository
}

func NewService(repo store.PostRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, uc auth.UserContext) ([]*models.Post, error) {
	tenantID, ok := currentTenant(uc)
	if !ok {
		return nil, ErrUnauthenticated
	}
	posts, err := s.repo.GetByAuthor(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, uc auth.UserContext, id uuid.UUID) (*models.Post, error) {
	tenantID, ok := currentTenant(uc)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetByIDAndAuthor(ctx, id, tenantID)
}

func (s *Service) Create(ctx context.Context, uc auth.UserContext, req CreatePostRequest) (*models.Post, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	post, err := ToEntity(req, uc)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.AddAndSave(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	slog.Debug("post created", "post_id", saved.ID, "author_id", saved.AuthorID)
	return saved, nil
}

// Update rewrites title and content of a post the caller owns.
func (s *Service) Update(ctx context.Context, uc auth.UserContext, id uuid.UUID, req UpdatePostRequest) (*models.Post, error) {
	tenantID, ok := currentTenant(uc)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.ID != uuid.Nil && req.ID != id {
		return nil, &ValidationError{Fields: map[string]string{"id": "must match the id in the path"}}
	}

	post, err := s.repo.GetByIDAndAuthor(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}
	ApplyUpdate(post, req)

	uow := s.repo.NewUnitOfWork()
	uow.Update(post)
	if err := uow.Save(ctx); err != nil {
		return nil, saveError("update post", err)
	}
	return post, nil
}

func (s *Service) Delete(ctx context.Context, uc auth.UserContext, id uuid.UUID) error {
	tenantID, ok := currentTenant(uc)
	if !ok {
		return ErrUnauthenticated
	}
	post, err := s.repo.GetByIDAndAuthor(ctx, id, tenantID)
	if err != nil {
		return err
	}

	uow := s.repo.NewUnitOfWork()
	uow.Remove(post)
	if err := uow.Save(ctx); err != nil {
		return saveError("delete post", err)
	}
	slog.Debug("post deleted", "post_id", id, "author_id", tenantID)
	return nil
}

// saveError passes ErrNotFound through untouched: the row went away (or
// changed owner) between the scoped read and the commit.
func saveError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/api/response"
	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/internal/posts"
	"github.com/kiranshivaraju/inkwell/pkg/models"
)

// PostsBasePath is where post resources live; Location headers are built from it.
const PostsBasePath = "/api/admin/posts"

const maxBodyBytes = 1 << 20

// PostService defines the interface the post handlers depend on.
type PostService interface {
	List(ctx context.Context, uc auth.UserContext) ([]*models.Post, error)
	Get(ctx context.Context, uc auth.UserContext, id uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, uc auth.UserContext, req posts.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, uc auth.UserContext, id uuid.UUID, req posts.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, uc auth.UserContext, id uuid.UUID) error
}

// PostResponse is the wire shape of a post. The author is never exposed.
type PostResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(p *models.Post) PostResponse {
	return PostResponse{ID: p.ID, Title: p.Title, Content: p.Content, CreatedAt: p.DateCreated}
}

// Posts groups the handlers for /api/admin/posts.
type Posts struct {
	svc PostService
}

func NewPosts(svc PostService) *Posts {
	return &Posts{svc: svc}
}

// List handles GET /api/admin/posts.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]PostResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	response.JSON(w, out)
}

// Get handles GET /api/admin/posts/{id}.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), auth.FromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, toResponse(p))
}

// Create handles POST /api/admin/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req posts.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.Create(r.Context(), auth.FromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, PostsBasePath+"/"+p.ID.String(), toResponse(p))
}

// Update handles PATCH /api/admin/posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var req posts.UpdatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.Update(r.Context(), auth.FromContext(r.Context()), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, toResponse(p))
}

// Delete handles DELETE /api/admin/posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.NoContent(w)
}

// postID parses the {id} URL parameter. A malformed id cannot name any post,
// so it is reported the same way as a missing one.
func postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Post not found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *posts.ValidationError
	switch {
	case errors.Is(err, posts.ErrUnauthorized), errors.Is(err, posts.ErrUnauthenticated):
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", err.Error(), nil)
	case errors.Is(err, posts.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Post not found", nil)
	case errors.As(err, &verr):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", verr.Fields)
	default:
		slog.Error("post operation failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/internal/posts"
	"github.com/kiranshivaraju/inkwell/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock PostService ---

type mockService struct {
	err    error
	lastUC auth.UserContext
}

func (m *mockService) List(_ context.Context, uc auth.UserContext) ([]*models.Post, error) {
	m.lastUC = uc
	return nil, m.err
}
func (m *mockService) Get(_ context.Context, uc auth.UserContext, id uuid.UUID) (*models.Post, error) {
	m.lastUC = uc
	if m.err != nil {
		return nil, m.err
	}
	return &models.Post{ID: id, Title: "T", Content: "C", AuthorID: "secret-author"}, nil
}
func (m *mockService) Create(_ context.Context, _ auth.UserContext, _ posts.CreatePostRequest) (*models.Post, error) {
	return nil, m.err
}
func (m *mockService) Update(_ context.Context, _ auth.UserContext, _ uuid.UUID, _ posts.UpdatePostRequest) (*models.Post, error) {
	return nil, m.err
}
func (m *mockService) Delete(_ context.Context, _ auth.UserContext, _ uuid.UUID) error {
	return m.err
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func parseErr(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error.Code
}

func TestWriteServiceError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", posts.ErrUnauthorized, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"unauthenticated", posts.ErrUnauthenticated, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"not found", posts.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"validation", &posts.ValidationError{Fields: map[string]string{"title": "is required"}}, http.StatusBadRequest, "INVALID_REQUEST"},
		{"storage", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPosts(&mockService{err: tt.err})
			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, PostsBasePath, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, parseErr(t, rec))
		})
	}
}

func TestStorageErrorDoesNotLeak(t *testing.T) {
	h := NewPosts(&mockService{err: errors.New("pq: relation posts does not exist")})
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, PostsBasePath, nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestGet_HidesAuthor(t *testing.T) {
	svc := &mockService{}
	h := NewPosts(svc)
	id := uuid.New()

	req := withURLParam(httptest.NewRequest(http.MethodGet, PostsBasePath+"/"+id.String(), nil), "id", id.String())
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-author")
	assert.NotNil(t, svc.lastUC)
}

func TestGet_MalformedID(t *testing.T) {
	h := NewPosts(&mockService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, PostsBasePath+"/xyz", nil), "id", "xyz")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_InvalidJSON(t *testing.T) {
	h := NewPosts(&mockService{})

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, PostsBasePath, strings.NewReader(`{"title":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", parseErr(t, rec))
}

// --- health ---

type pinger struct{ err error }

func (p pinger) Ping(_ context.Context) error { return p.err }

func TestHealth_OK(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(pinger{}, pinger{})(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealth_Degraded(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(pinger{err: errors.New("down")}, pinger{})(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "DEGRADED", parseErr(t, rec))
}

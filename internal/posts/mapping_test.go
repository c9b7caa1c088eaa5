package posts_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/inkwell/internal/auth"
	"github.com/kiranshivaraju/inkwell/internal/posts"
	"github.com/kiranshivaraju/inkwell/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEntity_ValidRequest(t *testing.T) {
	req := posts.CreatePostRequest{Title: "T", Content: "C"}

	start := time.Now().UTC()
	p, err := posts.ToEntity(req, auth.As("u1"))
	end := time.Now().UTC()

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, "T", p.Title)
	assert.Equal(t, "C", p.Content)
	assert.Equal(t, "u1", p.AuthorID)
	assert.Equal(t, time.UTC, p.DateCreated.Location())
	assert.False(t, p.DateCreated.Before(start))
	assert.False(t, p.DateCreated.After(end))
}

func TestToEntity_CopiesVerbatim(t *testing.T) {
	req := posts.CreatePostRequest{Title: "  spaced  ", Content: "line1\nline2 <b>html</b>"}

	p, err := posts.ToEntity(req, auth.As("u1"))
	require.NoError(t, err)
	assert.Equal(t, req.Title, p.Title)
	assert.Equal(t, req.Content, p.Content)
}

func TestToEntity_Unauthenticated(t *testing.T) {
	tests := []struct {
		name string
		uc   auth.UserContext
	}{
		{"nil context", nil},
		{"anonymous", auth.Anonymous},
		{"empty tenant id", auth.As("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := posts.ToEntity(posts.CreatePostRequest{Title: "T", Content: "C"}, tt.uc)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, posts.ErrUnauthorized)
			assert.EqualError(t, err, "User must be authenticated to create posts")
		})
	}
}

func TestToEntity_IdsAreUnique(t *testing.T) {
	const samples = 1000
	req := posts.CreatePostRequest{Title: "same", Content: "same"}
	seen := make(map[uuid.UUID]struct{}, samples)

	for i := 0; i < samples; i++ {
		p, err := posts.ToEntity(req, auth.As("u1"))
		require.NoError(t, err)
		_, dup := seen[p.ID]
		require.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}
	}
	assert.Len(t, seen, samples)
}

func TestApplyUpdate_OnlyTitleAndContent(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.New()
	p := &models.Post{ID: id, Title: "old", Content: "old", AuthorID: "u1", DateCreated: created}

	posts.ApplyUpdate(p, posts.UpdatePostRequest{ID: uuid.New(), Title: "new", Content: "body"})

	assert.Equal(t, id, p.ID)
	assert.Equal(t, "new", p.Title)
	assert.Equal(t, "body", p.Content)
	assert.Equal(t, "u1", p.AuthorID)
	assert.Equal(t, created, p.DateCreated)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     posts.CreatePostRequest
		invalid []string
	}{
		{"valid", posts.CreatePostRequest{Title: "T", Content: "C"}, nil},
		{"title at limit", posts.CreatePostRequest{Title: strings.Repeat("a", 200), Content: "C"}, nil},
		{"multibyte title at limit", posts.CreatePostRequest{Title: strings.Repeat("é", 200), Content: "C"}, nil},
		{"title too long", posts.CreatePostRequest{Title: strings.Repeat("a", 201), Content: "C"}, []string{"title"}},
		{"empty title", posts.CreatePostRequest{Content: "C"}, []string{"title"}},
		{"empty content", posts.CreatePostRequest{Title: "T"}, []string{"content"}},
		{"both empty", posts.CreatePostRequest{}, []string{"title", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := posts.Validate(tt.req)
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}
			var verr *posts.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.invalid))
			for _, f := range tt.invalid {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := posts.Validate(posts.CreatePostRequest{Title: strings.Repeat("a", 201)})
	assert.EqualError(t, err, "validation failed: content: is required; title: must be at most 200 characters")
}

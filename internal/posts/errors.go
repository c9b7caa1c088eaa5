package posts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kiranshivaraju/inkwell/internal/store"
)

var (
	// ErrUnauthorized is returned by ToEntity when no tenant can be resolved.
	ErrUnauthorized = errors.New("User must be authenticated to create posts")

	// ErrUnauthenticated is returned by read, update and delete paths when no
	// tenant can be resolved.
	ErrUnauthenticated = errors.New("user is not authenticated")

	// ErrNotFound merges "does not exist" and "belongs to someone else".
	ErrNotFound = store.ErrNotFound
)

// ValidationError lists the offending request fields and why they failed.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

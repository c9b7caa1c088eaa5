package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/inkwell/internal/api/response"
	"github.com/kiranshivaraju/inkwell/internal/auth"
)

// TokenVerifier turns a raw bearer token into an authenticated principal.
type TokenVerifier interface {
	Verify(raw string) (*auth.Principal, error)
}

// Auth provides bearer-token authentication middleware.
type Auth struct {
	verifier TokenVerifier
}

// NewAuth creates a new Auth middleware.
func NewAuth(v TokenVerifier) *Auth {
	return &Auth{verifier: v}
}

// Authenticate validates the Bearer token and binds the resulting principal
// to the request context. It does not look at the subject claim; handlers
// resolve the tenant through auth.FromContext.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearerToken(r)
		if raw == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		principal, err := a.verifier.Verify(raw)
		if err != nil {
			slog.Debug("bearer token rejected", "error", err, "path", r.URL.Path)
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Invalid bearer token", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

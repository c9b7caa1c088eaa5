package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/inkwell/internal/api/response"
)

// Pinger is anything whose connectivity can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler returns an http.HandlerFunc for GET /api/health that
// checks database and rate-limit store connectivity.
func NewHealthHandler(db, counter Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database":  "ok",
			"ratelimit": "ok",
		}
		if err := db.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := counter.Ping(r.Context()); err != nil {
			checks["ratelimit"] = "degraded"
		}

		if checks["database"] != "ok" || checks["ratelimit"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}
		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}

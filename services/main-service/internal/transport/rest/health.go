package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler takes the database and an optional cache.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Healthz fails only when Postgres is down; a missing Redis degrades.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	body := map[string]string{"status": "ok", "db": "up"}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			body["status"], body["db"] = "down", "down"
			status = http.StatusServiceUnavailable
		}
		metrics.SetDependencyHealth("postgres", body["db"] == "up")
	}
	if h.cache != nil {
		body["cache"] = "up"
		if err := h.cache.Ping(ctx); err != nil {
			body["cache"] = "down"
			if status == http.StatusOK {
				body["status"] = "degraded"
			}
		}
		metrics.SetDependencyHealth("redis", body["cache"] == "up")
	}

	response.JSON(w, status, body)
}

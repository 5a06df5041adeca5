package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "db": "down"})
			return
		}
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/config"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/metrics"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/handlers"
	mw "github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/middleware"
)

func New(h *handlers.StatsHandler, z *handlers.HealthHandler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.AccessLog)

	r.Get("/healthz", z.Healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.RLEnabled {
			r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
		}
		r.Post("/hit", h.Hit)
		r.Get("/stats", h.Stats)
	})

	return r
}

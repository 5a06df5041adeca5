package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
	"github.com/baechuer/explore-with-me/services/main-service/internal/security"
)

type RouterDeps struct {
	Handler *Handler
	Health  *HealthHandler

	// Auth; Verifier may be nil only when AuthEnabled is false.
	AuthEnabled bool
	Verifier    security.AccessTokenVerifier
	JWTIssuer   string

	// Rate limit; without a shared limiter the router falls back to an
	// in-process window.
	RLEnabled   bool
	RLLimit     int
	RLWindow    time.Duration
	RateLimiter RateLimiter
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Handler == nil {
		panic("rest.NewRouter: nil handler")
	}
	if d.Health == nil {
		d.Health = NewHealthHandler(nil, nil)
	}

	r := chi.NewRouter()

	// Request ID + structured access log
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(HTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	r.Get("/healthz", d.Health.Healthz)
	r.Handle("/metrics", metrics.Handler())

	h := d.Handler

	r.Group(func(r chi.Router) {
		if d.RLEnabled {
			if d.RateLimiter != nil {
				r.Use(RateLimitMiddleware(d.RateLimiter, d.RLLimit, d.RLWindow))
			} else {
				r.Use(httprate.LimitByIP(d.RLLimit, d.RLWindow))
			}
		}

		// Public
		r.Get("/events", h.SearchEventsPublic)
		r.Get("/events/{eventId}", h.GetEventPublic)
		r.Get("/events/{eventId}/comments", h.ListEventComments)
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{catId}", h.GetCategory)
		r.Get("/compilations", h.ListCompilations)
		r.Get("/compilations/{compId}", h.GetCompilation)

		// Private: {userId} is the acting user
		r.Route("/users/{userId}", func(r chi.Router) {
			if d.AuthEnabled {
				r.Use(AuthMiddleware(d.Verifier, AuthOptions{ExpectedIssuer: d.JWTIssuer}))
				r.Use(RequireSelf("userId"))
			}

			r.Post("/requests", h.CreateRequest)
			r.Get("/requests", h.ListMyRequests)
			r.Patch("/requests/{requestId}/cancel", h.CancelRequest)

			r.Post("/events", h.CreateEvent)
			r.Get("/events", h.ListMyEvents)
			r.Get("/events/{eventId}", h.GetMyEvent)
			r.Patch("/events/{eventId}", h.UpdateMyEvent)
			r.Get("/events/{eventId}/requests", h.ListEventRequests)
			r.Patch("/events/{eventId}/requests", h.ModerateRequests)

			r.Post("/events/{eventId}/comments", h.CreateComment)
			r.Patch("/comments/{commentId}", h.EditComment)
			r.Delete("/comments/{commentId}", h.DeleteOwnComment)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			if d.AuthEnabled {
				r.Use(AuthMiddleware(d.Verifier, AuthOptions{ExpectedIssuer: d.JWTIssuer}))
				r.Use(RequireAdmin)
			}

			r.Get("/events", h.SearchEventsAdmin)
			r.Patch("/events/{eventId}", h.UpdateEventAdmin)
			r.Get("/events/{eventId}/capacity", h.AuditCapacity)
			r.Post("/events/{eventId}/capacity/reconcile", h.ReconcileCapacity)

			r.Post("/users", h.RegisterUser)
			r.Get("/users", h.ListUsers)
			r.Delete("/users/{userId}", h.DeleteUser)

			r.Post("/categories", h.CreateCategory)
			r.Patch("/categories/{catId}", h.UpdateCategory)
			r.Delete("/categories/{catId}", h.DeleteCategory)

			r.Post("/compilations", h.CreateCompilation)
			r.Patch("/compilations/{compId}", h.UpdateCompilation)
			r.Delete("/compilations/{compId}", h.DeleteCompilation)

			r.Delete("/comments/{commentId}", h.DeleteCommentAdmin)
		})
	})

	return r
}

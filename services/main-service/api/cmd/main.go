package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baechuer/explore-with-me/services/main-service/internal/application/catalog"
	"github.com/baechuer/explore-with-me/services/main-service/internal/application/comment"
	"github.com/baechuer/explore-with-me/services/main-service/internal/application/event"
	"github.com/baechuer/explore-with-me/services/main-service/internal/application/request"
	"github.com/baechuer/explore-with-me/services/main-service/internal/application/user"
	"github.com/baechuer/explore-with-me/services/main-service/internal/audit"
	"github.com/baechuer/explore-with-me/services/main-service/internal/config"
	"github.com/baechuer/explore-with-me/services/main-service/internal/infrastructure/postgres"
	"github.com/baechuer/explore-with-me/services/main-service/internal/infrastructure/rabbitmq"
	"github.com/baechuer/explore-with-me/services/main-service/internal/infrastructure/redis"
	"github.com/baechuer/explore-with-me/services/main-service/internal/infrastructure/statsclient"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
	"github.com/baechuer/explore-with-me/services/main-service/internal/security"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "main-service",
	})
	log := logger.Logger.With().Str("env", cfg.AppEnv).Logger()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Postgres ----
	dbPool, err := postgres.Open(rootCtx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer dbPool.Close()
	log.Info().Msg("postgres connected")

	// ---- Redis ----
	cache := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	{
		pingCtx, cancel := context.WithTimeout(rootCtx, 2*time.Second)
		// best-effort: the cache and the shared limiter both fail open
		if err := cache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("redis ping failed (continuing)")
		} else {
			log.Info().Msg("redis connected")
		}
		cancel()
	}

	auditLog := audit.New(logger.Logger)
	stats := statsclient.New(cfg.StatsURL, cfg.StatsTimeout)

	handler := rest.NewHandler(newServices(cfg, dbPool, cache, stats, auditLog))

	var verifier security.AccessTokenVerifier
	if cfg.AuthEnabled {
		verifier = security.NewHS256Verifier(cfg.JWTSecret)
	} else {
		log.Warn().Msg("auth disabled: acting user is taken from the path")
	}

	httpHandler := rest.NewRouter(rest.RouterDeps{
		Handler:     handler,
		Health:      rest.NewHealthHandler(dbPool, cache),
		AuthEnabled: cfg.AuthEnabled,
		Verifier:    verifier,
		JWTIssuer:   cfg.JWTIssuer,
		RLEnabled:   cfg.RLEnabled,
		RLLimit:     cfg.RLLimit,
		RLWindow:    cfg.RLWindow,
		RateLimiter: cache,
	})

	// ---- Outbox relay (outbound request.* / event.* messages) ----
	if cfg.OutboxEnabled {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange, cfg.AppName)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq publisher init failed")
		}
		defer pub.Close()

		postgres.NewOutboxRelay(dbPool, pub, auditLog).Start(rootCtx)
		log.Info().Str("exchange", cfg.RabbitExchange).Msg("outbox relay started")
	}

	srv := newServer(cfg, httpHandler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info().Msg("shutdown complete")
}

// newServices wires repositories into the application services. The event
// service doubles as the cache invalidator for the ledger and as the view
// enricher for compilations.
func newServices(
	cfg *config.Config,
	pool *pgxpool.Pool,
	cache *redis.Cache,
	stats event.StatsClient,
	auditLog *audit.Logger,
) (rest.RequestService, rest.EventService, rest.CatalogService, rest.CommentService, rest.UserService) {
	clock := sysClock{}

	events := event.NewService(postgres.NewEventRepo(pool), clock, cache, stats, auditLog, event.Options{
		AppName:  cfg.AppName,
		CacheTTL: cfg.CacheEventTTL,
	})
	requests := request.NewService(postgres.NewRequestRepo(pool), clock, events, auditLog)
	catalogSvc := catalog.NewService(postgres.NewCatalogRepo(pool), events)
	comments := comment.NewService(postgres.NewCommentRepo(pool), clock)
	users := user.NewService(postgres.NewUserRepo(pool))

	return requests, events, catalogSvc, comments, users
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/application/stats"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/config"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/logger"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/handlers"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/router"
	zlog "github.com/rs/zerolog/log"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	{
		ctx, cancel := context.WithTimeout(rootCtx, 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	repo := postgres.New(db)
	svc := stats.New(repo, sysClock{})

	httpHandler := router.New(
		handlers.NewStatsHandler(svc),
		handlers.NewHealthHandler(db),
		cfg,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		zlog.Info().Msg("shutdown signal received")
	case err := <-errCh:
		zlog.Error().Err(err).Msg("server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	zlog.Info().Msg("shutdown complete")
}

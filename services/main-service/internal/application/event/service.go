package event

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/audit"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Options struct {
	AppName  string
	CacheTTL time.Duration
}

type Service struct {
	repo  Repo
	clock Clock
	cache Cache
	stats StatsClient
	audit *audit.Logger

	appName  string
	cacheTTL time.Duration
}

func NewService(repo Repo, clock Clock, cache Cache, stats StatsClient, auditLog *audit.Logger, opts Options) *Service {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.AppName == "" {
		opts.AppName = "ewm-main-service"
	}
	if auditLog == nil {
		auditLog = audit.New(zerolog.Nop())
	}
	return &Service{
		repo:     repo,
		clock:    clock,
		cache:    cache,
		stats:    stats,
		audit:    auditLog,
		appName:  opts.AppName,
		cacheTTL: opts.CacheTTL,
	}
}

// InvalidateEvent bumps the event's cache generation, then drops the cached
// public copy. Failures are logged only.
func (s *Service) InvalidateEvent(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	log := logger.WithCtx(ctx)
	genKey := cacheKeyEventGen(id)
	if err := s.cache.Set(ctx, genKey, uuid.NewString(), cacheGenTTL); err != nil {
		log.Warn().Err(err).Str("key", genKey).Msg("cache generation bump failed")
	}
	key := cacheKeyEvent(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}

// cacheGeneration is "" when the event was never invalidated or the cache
// cannot be read.
func (s *Service) cacheGeneration(ctx context.Context, id int64) string {
	var gen string
	if found, err := s.cache.Get(ctx, cacheKeyEventGen(id), &gen); err != nil || !found {
		return ""
	}
	return gen
}

// cachePublic stores e unless an invalidation ran since gen was read. The
// check happens after the write: an invalidation landing before the check is
// caught here, one landing after it deletes the copy itself.
func (s *Service) cachePublic(ctx context.Context, e *domain.Event, gen string) {
	log := logger.WithCtx(ctx)
	key := cacheKeyEvent(e.ID)
	if err := s.cache.Set(ctx, key, e, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return
	}
	if s.cacheGeneration(ctx, e.ID) == gen {
		return
	}
	log.Debug().Str("key", key).Msg("event changed during read; dropping cached copy")
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}

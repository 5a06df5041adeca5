package event

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
)

func notFound(id int64) error {
	return domain.ErrMissing("event", id)
}

// GetPublic returns a published event. The cached copy never carries views;
// they are merged after the read.
func (s *Service) GetPublic(ctx context.Context, id int64, v Visit) (*domain.Event, error) {
	log := logger.WithCtx(ctx)
	key := cacheKeyEvent(id)

	var ev *domain.Event
	if s.cache != nil {
		var cached domain.Event
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			log.Debug().Str("key", key).Msg("cache hit")
			ev = &cached
		}
	}

	if ev == nil {
		var gen string
		if s.cache != nil {
			gen = s.cacheGeneration(ctx, id)
		}
		e, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if e.State != domain.EventPublished {
			return nil, notFound(id)
		}
		if s.cache != nil {
			s.cachePublic(ctx, e, gen)
		}
		ev = e
	}

	s.recordHit(ctx, v)
	s.Enrich(ctx, ev)
	return ev, nil
}

func (s *Service) GetForInitiator(ctx context.Context, initiatorID, id int64) (*domain.Event, error) {
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev.Initiator.ID != initiatorID {
		return nil, notFound(id)
	}
	s.Enrich(ctx, ev)
	return ev, nil
}

func (s *Service) ListForInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	ok, err := s.repo.UserExists(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	events, err := s.repo.ListByInitiator(ctx, initiatorID, page)
	if err != nil {
		return nil, err
	}
	s.Enrich(ctx, events...)
	return events, nil
}

package stats

import (
	"context"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

type Service struct {
	repo  HitRepo
	clock Clock
}

func New(repo HitRepo, clock Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// RecordHit appends one hit. A missing timestamp is stamped with the server clock.
func (s *Service) RecordHit(ctx context.Context, h domain.EndpointHit) (*domain.EndpointHit, error) {
	h.Normalize()
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = s.clock.Now()
	}
	h.Timestamp = h.Timestamp.UTC()

	if err := s.repo.SaveHit(ctx, &h); err != nil {
		return nil, err
	}

	metrics.RecordHit(h.App)
	zlog.Debug().
		Int64("hit_id", h.ID).
		Str("app", h.App).
		Str("uri", h.URI).
		Msg("hit recorded")
	return &h, nil
}

// QueryViews aggregates hits per (app, uri), ordered by hits descending.
func (s *Service) QueryViews(ctx context.Context, q domain.StatsQuery) ([]domain.ViewStats, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.URIs = q.NormalizedURIs()
	q.Start = q.Start.UTC()
	q.End = q.End.UTC()

	out, err := s.repo.Stats(ctx, q)
	if err != nil {
		return nil, err
	}
	metrics.RecordStatsQuery(q.Unique)
	if out == nil {
		out = []domain.ViewStats{}
	}
	return out, nil
}

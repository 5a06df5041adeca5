package event

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
)

const (
	viewsLookback  = 365 * 24 * time.Hour
	viewsLookahead = 24 * time.Hour
)

// Enrich sets Views on every event from the stats service. Stats failures
// leave every count at zero.
func (s *Service) Enrich(ctx context.Context, events ...*domain.Event) {
	if len(events) == 0 {
		return
	}
	for _, e := range events {
		e.Views = 0
	}
	if s.stats == nil {
		return
	}

	uris := make([]string, 0, len(events))
	for _, e := range events {
		uris = append(uris, domain.EventURI(e.ID))
	}

	now := s.clock.Now().UTC()
	stats, err := s.stats.Views(ctx, domain.ViewsQuery{
		Start:  now.Add(-viewsLookback),
		End:    now.Add(viewsLookahead),
		URIs:   uris,
		Unique: true,
	})
	if err != nil {
		metrics.RecordStatsFailure("views")
		logger.WithCtx(ctx).Warn().Err(err).Int("events", len(events)).Msg("stats views unavailable, defaulting to 0")
		return
	}

	views := make(map[int64]int64, len(stats))
	for _, v := range stats {
		if id, ok := domain.EventIDFromURI(v.URI); ok {
			views[id] += v.Hits
		}
	}
	for _, e := range events {
		e.Views = views[e.ID]
	}
}

// recordHit reports a public read. Failures are logged and swallowed.
func (s *Service) recordHit(ctx context.Context, v Visit) {
	if s.stats == nil || v.URI == "" {
		return
	}
	err := s.stats.Hit(ctx, domain.Hit{
		App:       s.appName,
		URI:       v.URI,
		IP:        v.IP,
		Timestamp: s.clock.Now().UTC(),
	})
	if err != nil {
		metrics.RecordStatsFailure("hit")
		logger.WithCtx(ctx).Warn().Err(err).Str("uri", v.URI).Msg("stats hit not recorded")
	}
}

package stats

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type HitRepo interface {
	SaveHit(ctx context.Context, h *domain.EndpointHit) error
	Stats(ctx context.Context, q domain.StatsQuery) ([]domain.ViewStats, error)
}

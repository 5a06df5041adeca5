package request

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/audit"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/rs/zerolog"
)

type Service struct {
	store Store
	clock Clock
	inv   Invalidator
	audit *audit.Logger
}

func NewService(store Store, clock Clock, inv Invalidator, auditLog *audit.Logger) *Service {
	if auditLog == nil {
		auditLog = audit.New(zerolog.Nop())
	}
	return &Service{store: store, clock: clock, inv: inv, audit: auditLog}
}

func (s *Service) invalidate(ctx context.Context, eventID int64) {
	if s.inv != nil {
		s.inv.InvalidateEvent(ctx, eventID)
	}
}

type requestPayload struct {
	RequestID   int64  `json:"request_id"`
	EventID     int64  `json:"event_id"`
	RequesterID int64  `json:"requester_id"`
	Status      string `json:"status"`
	Confirmed   int    `json:"confirmed_requests"`
}

type moderationPayload struct {
	EventID   int64   `json:"event_id"`
	Confirmed []int64 `json:"confirmed"`
	Rejected  []int64 `json:"rejected"`
	Counter   int     `json:"confirmed_requests"`
}

func outbox(ctx context.Context, key string, payload any) domain.OutboxMessage {
	return domain.OutboxMessage{
		RoutingKey: key,
		TraceID:    appCtx.GetRequestID(ctx),
		Payload:    payload,
	}
}

func ids(reqs []domain.ParticipationRequest) []int64 {
	out := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

package audit

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for business events
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// entry tags e with the request trace id and, when known, the acting user.
func (l *Logger) entry(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	e = e.Str("trace_id", appCtx.GetRequestID(ctx))
	if actor, ok := appCtx.GetActor(ctx); ok {
		e = e.Int64("actor_id", actor)
	}
	return e
}

func (l *Logger) RequestCreated(ctx context.Context, r *domain.ParticipationRequest) {
	l.entry(ctx, l.log.Info()).
		Str("action", "request_created").
		Int64("request_id", r.ID).
		Int64("event_id", r.EventID).
		Int64("requester_id", r.RequesterID).
		Str("status", string(r.Status)).
		Msg("Participation request created")
}

func (l *Logger) RequestCanceled(ctx context.Context, r *domain.ParticipationRequest, prev domain.RequestStatus) {
	l.entry(ctx, l.log.Info()).
		Str("action", "request_canceled").
		Int64("request_id", r.ID).
		Int64("event_id", r.EventID).
		Int64("requester_id", r.RequesterID).
		Str("previous_status", string(prev)).
		Msg("Participation request canceled")
}

func (l *Logger) RequestsModerated(ctx context.Context, eventID, initiatorID int64, res domain.ModerationResult) {
	l.entry(ctx, l.log.Info()).
		Str("action", "requests_moderated").
		Int64("event_id", eventID).
		Int64("initiator_id", initiatorID).
		Int("confirmed", len(res.Confirmed)).
		Int("rejected", len(res.Rejected)).
		Msg("Participation requests moderated")
}

func (l *Logger) EventPublished(ctx context.Context, e *domain.Event) {
	l.entry(ctx, l.log.Info()).
		Str("action", "event_published").
		Int64("event_id", e.ID).
		Int64("initiator_id", e.Initiator.ID).
		Msg("Event published")
}

func (l *Logger) EventRejected(ctx context.Context, e *domain.Event) {
	l.entry(ctx, l.log.Warn()).
		Str("action", "event_rejected").
		Int64("event_id", e.ID).
		Int64("initiator_id", e.Initiator.ID).
		Msg("Event rejected")
}

// CapacityDrift is logged whenever a recount disagrees with the stored counter.
func (l *Logger) CapacityDrift(ctx context.Context, a domain.CapacityAudit) {
	l.entry(ctx, l.log.Error()).
		Str("action", "capacity_drift").
		Int64("event_id", a.EventID).
		Int("counter", a.Counter).
		Int("confirmed", a.Confirmed).
		Bool("repaired", a.Repaired).
		Msg("Confirmed request counter drifted")
}

func (l *Logger) OutboxMessageDead(messageID, routingKey string, attempts int) {
	l.log.Error().
		Str("action", "outbox_dead").
		Str("message_id", messageID).
		Str("routing_key", routingKey).
		Int("attempts", attempts).
		Msg("Outbox message moved to dead status")
}

package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/google/uuid"
)

const (
	envelopeVersion = 1
	producerName    = "ewm-main-service"
)

type envelope struct {
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	MessageID  string    `json:"message_id"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// insertOutbox writes the message in the caller's transaction; the relay
// publishes it after commit.
func insertOutbox(ctx context.Context, q querier, msg domain.OutboxMessage) error {
	messageID := uuid.New()
	now := time.Now().UTC()

	body, err := json.Marshal(envelope{
		Version:    envelopeVersion,
		Producer:   producerName,
		MessageID:  messageID.String(),
		TraceID:    msg.TraceID,
		OccurredAt: now,
		Payload:    msg.Payload,
	})
	if err != nil {
		return err
	}

	_, err = q.Exec(ctx, insertOutboxSQL, uuid.New(), messageID, msg.TraceID, msg.RoutingKey, body, now)
	return err
}

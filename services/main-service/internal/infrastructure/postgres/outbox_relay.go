package postgres

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/audit"
	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	outboxBatchSize   = 20
	outboxMaxAttempts = 12 // ~ up to hours with exponential backoff
	outboxInFlight    = 15 * time.Second
	outboxPollEvery   = 500 * time.Millisecond
)

// Publisher sends one outbox row to the broker and waits for its confirm.
type Publisher interface {
	PublishEvent(ctx context.Context, routingKey, messageID, traceID string, body []byte) error
}

// OutboxRelay moves pending outbox rows to the broker.
type OutboxRelay struct {
	pool  *pgxpool.Pool
	pub   Publisher
	audit *audit.Logger
}

func NewOutboxRelay(pool *pgxpool.Pool, pub Publisher, auditLog *audit.Logger) *OutboxRelay {
	return &OutboxRelay{pool: pool, pub: pub, audit: auditLog}
}

type outboxRow struct {
	ID         uuid.UUID
	MessageID  uuid.UUID
	TraceID    string
	RoutingKey string
	Payload    []byte
	Attempt    int
}

// backoff: exponential with jitter, bounded
func computeNextRetry(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// base: 2^attempt seconds, cap at 30 minutes
	sec := math.Pow(2, float64(attempt))
	if sec < 5 {
		sec = 5
	}
	if sec > 1800 {
		sec = 1800
	}

	d := time.Duration(sec) * time.Second

	// jitter +/-10%
	j := time.Duration(rand.Int63n(int64(d/5))) - d/10
	return d + j
}

// Start polls until ctx is canceled.
func (r *OutboxRelay) Start(ctx context.Context) {
	go func() {
		log := logger.Logger.With().Str("component", "outbox_relay").Logger()

		ticker := time.NewTicker(outboxPollEvery)
		defer ticker.Stop()

		var lastErr string
		var lastAt time.Time

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stopped")
				return
			case <-ticker.C:
				if _, err := r.ProcessBatch(ctx); err != nil {
					if err.Error() != lastErr || time.Since(lastAt) > 10*time.Second {
						log.Warn().Err(err).Msg("outbox batch failed")
						lastErr = err.Error()
						lastAt = time.Now()
					}
				} else {
					lastErr = ""
				}
			}
		}
	}()
}

// ProcessBatch claims due rows, publishes them and records the outcome.
// It returns the number of rows claimed.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (int, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(claimCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(claimCtx) }()

	rows, err := tx.Query(claimCtx, `
		SELECT id, message_id, trace_id, routing_key, payload, attempt
		FROM outbox
		WHERE status = 'pending'
		  AND next_retry_at <= NOW()
		ORDER BY next_retry_at ASC, occurred_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, outboxBatchSize)
	if err != nil {
		return 0, err
	}

	var batch []outboxRow
	for rows.Next() {
		var m outboxRow
		if err := rows.Scan(&m.ID, &m.MessageID, &m.TraceID, &m.RoutingKey, &m.Payload, &m.Attempt); err != nil {
			rows.Close()
			return 0, err
		}
		batch = append(batch, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(batch) == 0 {
		return 0, tx.Commit(claimCtx)
	}

	// Push next_retry_at forward so other relays skip in-flight rows.
	inFlightUntil := time.Now().Add(outboxInFlight)
	for _, m := range batch {
		if _, err := tx.Exec(claimCtx, `UPDATE outbox SET next_retry_at = $2 WHERE id = $1`, m.ID, inFlightUntil); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(claimCtx); err != nil {
		return 0, err
	}

	for _, m := range batch {
		r.publish(ctx, m)
	}
	return len(batch), nil
}

func (r *OutboxRelay) publish(ctx context.Context, m outboxRow) {
	log := logger.Logger.With().Str("component", "outbox_relay").Logger()

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.pub.PublishEvent(pubCtx, m.RoutingKey, m.MessageID.String(), m.TraceID, m.Payload); err != nil {
		r.fail(ctx, m, fmt.Sprintf("publish error: %v", err))
		return
	}

	resCtx, cancelRes := context.WithTimeout(ctx, 3*time.Second)
	defer cancelRes()
	if _, err := r.pool.Exec(resCtx, `
		UPDATE outbox
		SET status = 'sent',
		    last_error = NULL
		WHERE id = $1
	`, m.ID); err != nil {
		// the row is retried after the in-flight window; consumers dedupe on message_id
		log.Error().Err(err).
			Str("outbox_id", m.ID.String()).
			Str("message_id", m.MessageID.String()).
			Msg("published but could not mark outbox row sent")
	}
	metrics.RecordOutbox("sent")

	log.Info().
		Str("outbox_id", m.ID.String()).
		Str("message_id", m.MessageID.String()).
		Str("routing_key", m.RoutingKey).
		Msg("published")
}

func (r *OutboxRelay) fail(ctx context.Context, m outboxRow, errMsg string) {
	log := logger.Logger.With().Str("component", "outbox_relay").Logger()

	resCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	nextAttempt := m.Attempt + 1
	if nextAttempt >= outboxMaxAttempts {
		if _, err := r.pool.Exec(resCtx, `
			UPDATE outbox
			SET status = 'dead',
			    attempt = $2,
			    last_error = $3
			WHERE id = $1
		`, m.ID, nextAttempt, errMsg); err != nil {
			log.Error().Err(err).
				Str("outbox_id", m.ID.String()).
				Int("attempt", nextAttempt).
				Msg("could not mark outbox row dead")
		}
		metrics.RecordOutbox("dead")
		if r.audit != nil {
			r.audit.OutboxMessageDead(m.MessageID.String(), m.RoutingKey, nextAttempt)
		}
		return
	}

	delay := computeNextRetry(nextAttempt)
	if _, err := r.pool.Exec(resCtx, `
		UPDATE outbox
		SET attempt = $2,
		    next_retry_at = NOW() + $3::interval,
		    last_error = $4
		WHERE id = $1
	`, m.ID, nextAttempt, fmt.Sprintf("%f seconds", delay.Seconds()), errMsg); err != nil {
		log.Error().Err(err).
			Str("outbox_id", m.ID.String()).
			Int("attempt", nextAttempt).
			Msg("could not schedule outbox retry")
	}
	metrics.RecordOutbox("retry")

	log.Warn().
		Str("outbox_id", m.ID.String()).
		Str("message_id", m.MessageID.String()).
		Str("routing_key", m.RoutingKey).
		Int("attempt", nextAttempt).
		Dur("retry_in", delay).
		Msg("outbox publish failed; scheduled retry")
}

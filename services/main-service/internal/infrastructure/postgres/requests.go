package postgres

import (
	"context"
	"fmt"

	requestapp "github.com/baechuer/explore-with-me/services/main-service/internal/application/request"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestRepo stores the participation ledger.
//
// Deadlock policy: always lock the event row (FOR UPDATE OF e) before any of
// its request rows, and lock request rows in ascending id order.
type RequestRepo struct {
	pool *pgxpool.Pool
}

func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

func queryRequests(ctx context.Context, q querier, sql string, args ...any) ([]*domain.ParticipationRequest, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.ParticipationRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func flatten(in []*domain.ParticipationRequest) []domain.ParticipationRequest {
	out := make([]domain.ParticipationRequest, 0, len(in))
	for _, r := range in {
		out = append(out, *r)
	}
	return out
}

func (r *RequestRepo) UserExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.pool, userExistsSQL, id)
}

func (r *RequestRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return getEvent(ctx, r.pool, selectEventSQL, id)
}

func (r *RequestRepo) ListByRequester(ctx context.Context, requesterID int64) ([]domain.ParticipationRequest, error) {
	list, err := queryRequests(ctx, r.pool, requestColumns+" WHERE requester_id = $1 ORDER BY id", requesterID)
	if err != nil {
		return nil, err
	}
	return flatten(list), nil
}

func (r *RequestRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.ParticipationRequest, error) {
	list, err := queryRequests(ctx, r.pool, requestColumns+" WHERE event_id = $1 ORDER BY id", eventID)
	if err != nil {
		return nil, err
	}
	return flatten(list), nil
}

func (r *RequestRepo) WithTx(ctx context.Context, fn func(tx requestapp.Tx) error) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&requestTx{tx: tx})
	})
}

type requestTx struct {
	tx pgx.Tx
}

func (t *requestTx) LockEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return getEvent(ctx, t.tx, lockEventSQL, id)
}

func (t *requestTx) HasActiveRequest(ctx context.Context, eventID, requesterID int64) (bool, error) {
	var ok bool
	err := t.tx.QueryRow(ctx, hasActiveRequestSQL, eventID, requesterID).Scan(&ok)
	return ok, err
}

func (t *requestTx) InsertRequest(ctx context.Context, req *domain.ParticipationRequest) error {
	err := t.tx.QueryRow(ctx, insertRequestSQL,
		req.EventID, req.RequesterID, string(req.Status), req.Created,
	).Scan(&req.ID)
	if pgCode(err) == pgUniqueViolation {
		return domain.ErrConflict("participation request already exists")
	}
	return err
}

func (t *requestTx) GetRequest(ctx context.Context, id int64) (*domain.ParticipationRequest, error) {
	req, err := scanRequest(t.tx.QueryRow(ctx, requestColumns+" WHERE id = $1", id))
	if err != nil {
		return nil, mapErr(err, fmt.Sprintf("request with id=%d was not found", id))
	}
	return req, nil
}

func (t *requestTx) LockRequests(ctx context.Context, ids []int64) ([]*domain.ParticipationRequest, error) {
	return queryRequests(ctx, t.tx, lockRequestsSQL, ids)
}

func (t *requestTx) SetStatus(ctx context.Context, status domain.RequestStatus, ids []int64) error {
	_, err := t.tx.Exec(ctx, setRequestStatusSQL, string(status), ids)
	return err
}

func (t *requestTx) AdjustConfirmed(ctx context.Context, eventID int64, delta int) error {
	tag, err := t.tx.Exec(ctx, adjustConfirmedSQL, eventID, delta)
	if err != nil {
		return mapErr(err, eventNotFound(eventID))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound(eventNotFound(eventID))
	}
	return nil
}

func (t *requestTx) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx, countConfirmedSQL, eventID).Scan(&n)
	return n, err
}

func (t *requestTx) SetConfirmed(ctx context.Context, eventID int64, n int) error {
	_, err := t.tx.Exec(ctx, setConfirmedSQL, eventID, n)
	return mapErr(err, eventNotFound(eventID))
}

func (t *requestTx) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	return insertOutbox(ctx, t.tx, msg)
}

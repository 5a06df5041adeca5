package postgres

import (
	"context"
	"fmt"

	eventapp "github.com/baechuer/explore-with-me/services/main-service/internal/application/event"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func eventNotFound(id int64) string {
	return fmt.Sprintf("event with id=%d was not found", id)
}

func getEvent(ctx context.Context, q querier, sql string, id int64) (*domain.Event, error) {
	e, err := scanEvent(q.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, mapErr(err, eventNotFound(id))
	}
	return e, nil
}

func queryEvents(ctx context.Context, q querier, sql string, args ...any) ([]*domain.Event, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	err := r.pool.QueryRow(ctx, insertEventSQL,
		e.Title, e.Annotation, e.Description, e.Category.ID, e.Initiator.ID,
		e.Location.Lat, e.Location.Lon, e.EventDate, e.CreatedOn,
		e.Paid, e.ParticipantLimit, e.RequestModeration, string(e.State),
	).Scan(&e.ID)
	if pgCode(err) == pgForeignKeyViolation {
		return domain.ErrNotFound("category or initiator not found")
	}
	return err
}

func (r *EventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return getEvent(ctx, r.pool, selectEventSQL, id)
}

func (r *EventRepo) ListByInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error) {
	var w where
	w.add("e.initiator_id = ?", initiatorID)
	sql := eventColumns + w.sql() + " ORDER BY e.id" + w.page(page)
	return queryEvents(ctx, r.pool, sql, w.args...)
}

func (r *EventRepo) SearchAdmin(ctx context.Context, f eventapp.AdminFilter, page domain.Page) ([]*domain.Event, error) {
	sql, args := buildAdminSearch(f, page)
	return queryEvents(ctx, r.pool, sql, args...)
}

func (r *EventRepo) SearchPublic(ctx context.Context, f eventapp.PublicFilter, page domain.Page) ([]*domain.Event, error) {
	sql, args := buildPublicSearch(f, page)
	return queryEvents(ctx, r.pool, sql, args...)
}

func (r *EventRepo) EventsByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return []*domain.Event{}, nil
	}
	return queryEvents(ctx, r.pool, eventColumns+" WHERE e.id = ANY($1) ORDER BY e.id", ids)
}

func (r *EventRepo) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.pool, categoryExistsSQL, id)
}

func (r *EventRepo) UserExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.pool, userExistsSQL, id)
}

func (r *EventRepo) WithTx(ctx context.Context, fn func(tx eventapp.Tx) error) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&eventTx{tx: tx})
	})
}

type eventTx struct {
	tx pgx.Tx
}

func (t *eventTx) LockEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return getEvent(ctx, t.tx, lockEventSQL, id)
}

func (t *eventTx) Update(ctx context.Context, e *domain.Event) error {
	_, err := t.tx.Exec(ctx, updateEventSQL,
		e.ID, e.Title, e.Annotation, e.Description, e.Category.ID,
		e.Location.Lat, e.Location.Lon, e.EventDate, e.PublishedOn, e.Paid,
		e.ParticipantLimit, e.RequestModeration, string(e.State),
	)
	switch pgCode(err) {
	case pgForeignKeyViolation:
		return domain.ErrNotFound("category not found")
	case pgCheckViolation:
		return domain.ErrConflict("participant limit is below the confirmed requests")
	}
	return err
}

func (t *eventTx) Enqueue(ctx context.Context, msg domain.OutboxMessage) error {
	return insertOutbox(ctx, t.tx, msg)
}

func buildAdminSearch(f eventapp.AdminFilter, page domain.Page) (string, []any) {
	var w where
	if len(f.Users) > 0 {
		w.add("e.initiator_id = ANY(?)", f.Users)
	}
	if len(f.States) > 0 {
		states := make([]string, 0, len(f.States))
		for _, s := range f.States {
			states = append(states, string(s))
		}
		w.add("e.state = ANY(?)", states)
	}
	if len(f.Categories) > 0 {
		w.add("e.category_id = ANY(?)", f.Categories)
	}
	if f.RangeStart != nil {
		w.add("e.event_date >= ?", f.RangeStart.UTC())
	}
	if f.RangeEnd != nil {
		w.add("e.event_date <= ?", f.RangeEnd.UTC())
	}
	sql := eventColumns + w.sql() + " ORDER BY e.id" + w.page(page)
	return sql, w.args
}

func buildPublicSearch(f eventapp.PublicFilter, page domain.Page) (string, []any) {
	var w where
	w.raw("e.state = 'PUBLISHED'")
	if f.Text != "" {
		w.add(`(e.annotation ILIKE ? OR e.description ILIKE ?)`, likePattern(f.Text))
	}
	if len(f.Categories) > 0 {
		w.add("e.category_id = ANY(?)", f.Categories)
	}
	if f.Paid != nil {
		w.add("e.paid = ?", *f.Paid)
	}
	if f.RangeStart != nil {
		w.add("e.event_date >= ?", f.RangeStart.UTC())
	}
	if f.RangeEnd != nil {
		w.add("e.event_date <= ?", f.RangeEnd.UTC())
	}
	if f.OnlyAvailable {
		w.raw("(e.participant_limit = 0 OR e.confirmed_requests < e.participant_limit)")
	}
	sql := eventColumns + w.sql() + " ORDER BY e.event_date, e.id" + w.page(page)
	return sql, w.args
}

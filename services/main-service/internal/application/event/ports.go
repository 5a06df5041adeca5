package event

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type Repo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	ListByInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error)
	SearchAdmin(ctx context.Context, f AdminFilter, page domain.Page) ([]*domain.Event, error)
	SearchPublic(ctx context.Context, f PublicFilter, page domain.Page) ([]*domain.Event, error)

	CategoryExists(ctx context.Context, id int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)

	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx locks the event row so edits of the limit cannot race the ledger.
type Tx interface {
	LockEvent(ctx context.Context, id int64) (*domain.Event, error)
	// Update writes every editable column; confirmed_requests is left alone.
	Update(ctx context.Context, e *domain.Event) error
	Enqueue(ctx context.Context, msg domain.OutboxMessage) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// StatsClient talks to the stats service.
type StatsClient interface {
	Hit(ctx context.Context, h domain.Hit) error
	Views(ctx context.Context, q domain.ViewsQuery) ([]domain.ViewStat, error)
}

type SortOrder string

const (
	SortEventDate SortOrder = "EVENT_DATE"
	SortViews     SortOrder = "VIEWS"
)

func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortEventDate:
		return SortEventDate, nil
	case SortViews:
		return SortViews, nil
	default:
		return "", domain.ErrValidationMeta("invalid sort", map[string]string{
			"sort": "must be EVENT_DATE or VIEWS",
		})
	}
}

type PublicFilter struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          SortOrder
}

type AdminFilter struct {
	Users      []int64
	States     []domain.EventState
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// Visit identifies the public read to report to the stats service.
type Visit struct {
	URI string
	IP  string
}

package request

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// Store is the persistence side of the ledger. Reads outside WithTx see
// committed state only.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	UserExists(ctx context.Context, userID int64) (bool, error)
	GetEvent(ctx context.Context, eventID int64) (*domain.Event, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]domain.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.ParticipationRequest, error)
}

// Tx runs inside one database transaction. Locks must be taken event row
// first, then request rows by ascending id.
type Tx interface {
	LockEvent(ctx context.Context, eventID int64) (*domain.Event, error)
	HasActiveRequest(ctx context.Context, eventID, requesterID int64) (bool, error)
	InsertRequest(ctx context.Context, r *domain.ParticipationRequest) error
	GetRequest(ctx context.Context, requestID int64) (*domain.ParticipationRequest, error)
	// LockRequests returns the rows that exist, ordered by id.
	LockRequests(ctx context.Context, ids []int64) ([]*domain.ParticipationRequest, error)
	SetStatus(ctx context.Context, status domain.RequestStatus, ids []int64) error

	AdjustConfirmed(ctx context.Context, eventID int64, delta int) error
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	SetConfirmed(ctx context.Context, eventID int64, n int) error

	Enqueue(ctx context.Context, msg domain.OutboxMessage) error
}

// Invalidator drops cached copies of an event after its counter moved.
type Invalidator interface {
	InvalidateEvent(ctx context.Context, eventID int64)
}

package request

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
)

// Create opens a participation request. The event row stays locked from the
// capacity check until the counter update commits.
func (s *Service) Create(ctx context.Context, requesterID, eventID int64) (*domain.ParticipationRequest, error) {
	if requesterID <= 0 || eventID <= 0 {
		return nil, domain.ErrValidation("userId and eventId must be positive")
	}

	ok, err := s.store.UserExists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}

	var out *domain.ParticipationRequest
	err = s.store.WithTx(ctx, func(tx Tx) error {
		ev, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		active, err := tx.HasActiveRequest(ctx, eventID, requesterID)
		if err != nil {
			return err
		}

		req, err := domain.OpenRequest(ev, requesterID, active, s.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.InsertRequest(ctx, req); err != nil {
			return err
		}
		if req.Status == domain.RequestConfirmed {
			if err := tx.AdjustConfirmed(ctx, eventID, 1); err != nil {
				return err
			}
		}

		if err := tx.Enqueue(ctx, outbox(ctx, domain.RoutingRequestCreated, requestPayload{
			RequestID:   req.ID,
			EventID:     req.EventID,
			RequesterID: req.RequesterID,
			Status:      string(req.Status),
			Confirmed:   ev.ConfirmedRequests,
		})); err != nil {
			return err
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.RequestCreated(ctx, out)
	metrics.RecordRequestCreated(string(out.Status))
	if out.Status == domain.RequestConfirmed {
		s.invalidate(ctx, eventID)
	}
	return out, nil
}

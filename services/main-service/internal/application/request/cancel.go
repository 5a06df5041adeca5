package request

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
)

// Cancel withdraws the caller's own request. A request of another user is
// reported as missing.
func (s *Service) Cancel(ctx context.Context, requesterID, requestID int64) (*domain.ParticipationRequest, error) {
	var (
		out  *domain.ParticipationRequest
		prev domain.RequestStatus
		done bool
	)

	err := s.store.WithTx(ctx, func(tx Tx) error {
		found, err := tx.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if found.RequesterID != requesterID {
			return domain.ErrNotFound("request not found")
		}

		ev, err := tx.LockEvent(ctx, found.EventID)
		if err != nil {
			return err
		}
		locked, err := tx.LockRequests(ctx, []int64{requestID})
		if err != nil {
			return err
		}
		if len(locked) != 1 {
			return domain.ErrNotFound("request not found")
		}
		req := locked[0]

		p, changed, err := req.Cancel()
		if err != nil {
			return err
		}
		out, prev, done = req, p, changed
		if !changed {
			return nil
		}

		if err := tx.SetStatus(ctx, domain.RequestCanceled, []int64{req.ID}); err != nil {
			return err
		}
		if prev == domain.RequestConfirmed {
			if err := ev.ReleaseSeats(1); err != nil {
				return err
			}
			if err := tx.AdjustConfirmed(ctx, ev.ID, -1); err != nil {
				return err
			}
		}

		return tx.Enqueue(ctx, outbox(ctx, domain.RoutingRequestCanceled, requestPayload{
			RequestID:   req.ID,
			EventID:     req.EventID,
			RequesterID: req.RequesterID,
			Status:      string(req.Status),
			Confirmed:   ev.ConfirmedRequests,
		}))
	})
	if err != nil {
		return nil, err
	}

	if done {
		s.audit.RequestCanceled(ctx, out, prev)
		metrics.RecordRequestCanceled()
		if prev == domain.RequestConfirmed {
			s.invalidate(ctx, out.EventID)
		}
	}
	return out, nil
}

package request

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
)

// Audit recounts CONFIRMED requests and compares them with the stored counter.
func (s *Service) Audit(ctx context.Context, eventID int64) (domain.CapacityAudit, error) {
	return s.recount(ctx, eventID, false)
}

// Reconcile is Audit followed by overwriting the counter with the recount.
func (s *Service) Reconcile(ctx context.Context, eventID int64) (domain.CapacityAudit, error) {
	return s.recount(ctx, eventID, true)
}

func (s *Service) recount(ctx context.Context, eventID int64, repair bool) (domain.CapacityAudit, error) {
	var a domain.CapacityAudit
	err := s.store.WithTx(ctx, func(tx Tx) error {
		ev, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		n, err := tx.CountConfirmed(ctx, eventID)
		if err != nil {
			return err
		}
		a = domain.CapacityAudit{EventID: eventID, Counter: ev.ConfirmedRequests, Confirmed: n}
		if a.Consistent() || !repair {
			return nil
		}
		if err := tx.SetConfirmed(ctx, eventID, n); err != nil {
			return err
		}
		a.Repaired = true
		return nil
	})
	if err != nil {
		return domain.CapacityAudit{}, err
	}

	if !a.Consistent() {
		s.audit.CapacityDrift(ctx, a)
		metrics.RecordCapacityDrift()
	}
	if a.Repaired {
		s.invalidate(ctx, eventID)
	}
	return a, nil
}

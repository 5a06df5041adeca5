package request

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
)

// Moderate confirms or rejects a batch of pending requests for one event.
// Requests are handled in the order given; once the limit is reached the
// remaining ones are rejected.
func (s *Service) Moderate(ctx context.Context, initiatorID, eventID int64, requestIDs []int64, status string) (domain.ModerationResult, error) {
	target, err := domain.ParseModerationTarget(status)
	if err != nil {
		return domain.ModerationResult{}, err
	}
	order := domain.UniqueIDs(requestIDs)
	if len(order) == 0 {
		return domain.ModerationResult{}, domain.ErrValidationMeta("invalid moderation request", map[string]string{
			"requestIds": "must not be empty",
		})
	}

	var res domain.ModerationResult
	err = s.store.WithTx(ctx, func(tx Tx) error {
		ev, err := tx.LockEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.Initiator.ID != initiatorID {
			return domain.ErrMissing("event", eventID)
		}

		locked, err := tx.LockRequests(ctx, order)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.ParticipationRequest, len(locked))
		for _, r := range locked {
			byID[r.ID] = r
		}
		reqs := make([]*domain.ParticipationRequest, 0, len(order))
		for _, id := range order {
			r, ok := byID[id]
			if !ok {
				return domain.ErrMissing("request", id)
			}
			reqs = append(reqs, r)
		}

		before := ev.ConfirmedRequests
		res, err = domain.Moderate(ev, reqs, target)
		if err != nil {
			return err
		}

		if len(res.Confirmed) > 0 {
			if err := tx.SetStatus(ctx, domain.RequestConfirmed, ids(res.Confirmed)); err != nil {
				return err
			}
		}
		if len(res.Rejected) > 0 {
			if err := tx.SetStatus(ctx, domain.RequestRejected, ids(res.Rejected)); err != nil {
				return err
			}
		}
		if delta := ev.ConfirmedRequests - before; delta != 0 {
			if err := tx.AdjustConfirmed(ctx, ev.ID, delta); err != nil {
				return err
			}
		}

		return tx.Enqueue(ctx, outbox(ctx, domain.RoutingRequestModerated, moderationPayload{
			EventID:   ev.ID,
			Confirmed: ids(res.Confirmed),
			Rejected:  ids(res.Rejected),
			Counter:   ev.ConfirmedRequests,
		}))
	})
	if err != nil {
		return domain.ModerationResult{}, err
	}

	s.audit.RequestsModerated(ctx, eventID, initiatorID, res)
	metrics.RecordModeration(len(res.Confirmed), len(res.Rejected))
	if len(res.Confirmed) > 0 {
		s.invalidate(ctx, eventID)
	}
	return res, nil
}

package request

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

func (s *Service) ListMine(ctx context.Context, requesterID int64) ([]domain.ParticipationRequest, error) {
	ok, err := s.store.UserExists(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	return s.store.ListByRequester(ctx, requesterID)
}

// ListForEvent is visible to the event initiator only.
func (s *Service) ListForEvent(ctx context.Context, initiatorID, eventID int64) ([]domain.ParticipationRequest, error) {
	ev, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Initiator.ID != initiatorID {
		return nil, domain.ErrMissing("event", eventID)
	}
	return s.store.ListByEvent(ctx, eventID)
}

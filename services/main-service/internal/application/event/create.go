package event

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

func (s *Service) Create(ctx context.Context, initiatorID int64, in domain.NewEventInput) (*domain.Event, error) {
	ok, err := s.repo.UserExists(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}

	ev, err := domain.NewEvent(initiatorID, in, s.clock.Now())
	if err != nil {
		return nil, err
	}

	ok, err = s.repo.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound("category not found")
	}

	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, err
	}
	// reload for category and initiator names
	return s.repo.GetByID(ctx, ev.ID)
}

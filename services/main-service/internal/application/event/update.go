package event

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
)

type publishedPayload struct {
	EventID          int64     `json:"event_id"`
	InitiatorID      int64     `json:"initiator_id"`
	CategoryID       int64     `json:"category_id"`
	EventDate        time.Time `json:"event_date"`
	PublishedOn      time.Time `json:"published_on"`
	ParticipantLimit int       `json:"participant_limit"`
}

// UpdateByInitiator edits a pending or canceled event of the caller.
func (s *Service) UpdateByInitiator(ctx context.Context, initiatorID, id int64, p domain.EventPatch) (*domain.Event, error) {
	err := s.repo.WithTx(ctx, func(tx Tx) error {
		ev, err := tx.LockEvent(ctx, id)
		if err != nil {
			return err
		}
		if ev.Initiator.ID != initiatorID {
			return notFound(id)
		}
		if err := ev.EnsureEditableByInitiator(); err != nil {
			return err
		}
		if err := s.applyPatch(ctx, ev, p, domain.MinInitiatorLeadTime); err != nil {
			return err
		}
		if a, ok := p.StateAction.Get(); ok {
			if err := ev.ApplyInitiatorAction(a); err != nil {
				return err
			}
		}
		return tx.Update(ctx, ev)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// UpdateByAdmin edits any event and handles publication and rejection.
func (s *Service) UpdateByAdmin(ctx context.Context, id int64, p domain.EventPatch) (*domain.Event, error) {
	var action domain.StateAction
	err := s.repo.WithTx(ctx, func(tx Tx) error {
		ev, err := tx.LockEvent(ctx, id)
		if err != nil {
			return err
		}
		if err := s.applyPatch(ctx, ev, p, domain.MinPublishLeadTime); err != nil {
			return err
		}
		if a, ok := p.StateAction.Get(); ok {
			if err := ev.ApplyAdminAction(a, s.clock.Now()); err != nil {
				return err
			}
			action = a
		}
		if err := tx.Update(ctx, ev); err != nil {
			return err
		}
		if action != domain.ActionPublishEvent {
			return nil
		}
		return tx.Enqueue(ctx, domain.OutboxMessage{
			RoutingKey: domain.RoutingEventPublished,
			TraceID:    appCtx.GetRequestID(ctx),
			Payload: publishedPayload{
				EventID:          ev.ID,
				InitiatorID:      ev.Initiator.ID,
				CategoryID:       ev.Category.ID,
				EventDate:        ev.EventDate,
				PublishedOn:      *ev.PublishedOn,
				ParticipantLimit: ev.ParticipantLimit,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	out, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	switch action {
	case domain.ActionPublishEvent:
		s.audit.EventPublished(ctx, out)
	case domain.ActionRejectEvent:
		s.audit.EventRejected(ctx, out)
	}
	return out, nil
}

func (s *Service) applyPatch(ctx context.Context, ev *domain.Event, p domain.EventPatch, minLead time.Duration) error {
	if catID, ok := p.CategoryID.Get(); ok && catID > 0 && catID != ev.Category.ID {
		exists, err := s.repo.CategoryExists(ctx, catID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound("category not found")
		}
	}
	return ev.ApplyPatch(p, s.clock.Now(), minLead)
}

func (s *Service) reload(ctx context.Context, id int64) (*domain.Event, error) {
	s.InvalidateEvent(ctx, id)
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Enrich(ctx, ev)
	return ev, nil
}

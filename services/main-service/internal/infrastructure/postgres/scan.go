package postgres

import (
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*domain.Event, error) {
	var (
		e           domain.Event
		state       string
		publishedOn *time.Time
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Annotation, &e.Description,
		&e.Category.ID, &e.Category.Name, &e.Initiator.ID, &e.Initiator.Name,
		&e.Location.Lat, &e.Location.Lon, &e.EventDate, &e.CreatedOn, &publishedOn,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration, &state, &e.ConfirmedRequests,
	)
	if err != nil {
		return nil, err
	}
	e.State = domain.EventState(state)
	e.EventDate = e.EventDate.UTC()
	e.CreatedOn = e.CreatedOn.UTC()
	if publishedOn != nil {
		t := publishedOn.UTC()
		e.PublishedOn = &t
	}
	return &e, nil
}

func scanRequest(row scanner) (*domain.ParticipationRequest, error) {
	var (
		r      domain.ParticipationRequest
		status string
	)
	if err := row.Scan(&r.ID, &r.EventID, &r.RequesterID, &status, &r.Created); err != nil {
		return nil, err
	}
	r.Status = domain.RequestStatus(status)
	r.Created = r.Created.UTC()
	return &r, nil
}

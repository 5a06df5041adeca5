package dto

import (
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type NewUserRequest struct {
	Name  string `json:"name" validate:"notblank,min=2,max=250"`
	Email string `json:"email" validate:"required,min=6,max=254,email"`
}

type NewCategoryDto struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

type LocationDto struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (l LocationDto) toDomain() domain.Location {
	return domain.Location{Lat: l.Lat, Lon: l.Lon}
}

type NewEventDto struct {
	Title             string       `json:"title" validate:"notblank,min=3,max=120"`
	Annotation        string       `json:"annotation" validate:"notblank,min=20,max=2000"`
	Description       string       `json:"description" validate:"notblank,min=20,max=7000"`
	Category          int64        `json:"category" validate:"required,gt=0"`
	Location          *LocationDto `json:"location" validate:"required"`
	EventDate         *DateTime    `json:"eventDate" validate:"required"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool        `json:"requestModeration"`
}

func (d NewEventDto) ToInput() domain.NewEventInput {
	in := domain.NewEventInput{
		Title:       d.Title,
		Annotation:  d.Annotation,
		Description: d.Description,
		CategoryID:  d.Category,
	}
	if d.Location != nil {
		in.Location = d.Location.toDomain()
	}
	if d.EventDate != nil {
		in.EventDate = d.EventDate.Time
	}
	if d.Paid != nil {
		in.Paid = domain.Some(*d.Paid)
	}
	if d.ParticipantLimit != nil {
		in.ParticipantLimit = domain.Some(*d.ParticipantLimit)
	}
	if d.RequestModeration != nil {
		in.RequestModeration = domain.Some(*d.RequestModeration)
	}
	return in
}

// UpdateEventRequest serves both the initiator and the admin patch.
// Field rules are enforced by the domain patch.
type UpdateEventRequest struct {
	Title             domain.Optional[string]      `json:"title"`
	Annotation        domain.Optional[string]      `json:"annotation"`
	Description       domain.Optional[string]      `json:"description"`
	Category          domain.Optional[int64]       `json:"category"`
	Location          domain.Optional[LocationDto] `json:"location"`
	EventDate         domain.Optional[DateTime]    `json:"eventDate"`
	Paid              domain.Optional[bool]        `json:"paid"`
	ParticipantLimit  domain.Optional[int]         `json:"participantLimit"`
	RequestModeration domain.Optional[bool]        `json:"requestModeration"`
	StateAction       domain.Optional[string]      `json:"stateAction"`
}

func (d UpdateEventRequest) ToPatch() domain.EventPatch {
	return domain.EventPatch{
		Title:             d.Title,
		Annotation:        d.Annotation,
		Description:       d.Description,
		CategoryID:        d.Category,
		Location:          domain.MapOptional(d.Location, LocationDto.toDomain),
		EventDate:         domain.MapOptional(d.EventDate, func(t DateTime) time.Time { return t.Time }),
		Paid:              d.Paid,
		ParticipantLimit:  d.ParticipantLimit,
		RequestModeration: d.RequestModeration,
		StateAction:       domain.MapOptional(d.StateAction, func(s string) domain.StateAction { return domain.StateAction(s) }),
	}
}

type EventRequestStatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1"`
	Status     string  `json:"status" validate:"required,oneof=CONFIRMED REJECTED"`
}

type NewCompilationDto struct {
	Title  string  `json:"title" validate:"notblank,max=50"`
	Pinned *bool   `json:"pinned"`
	Events []int64 `json:"events"`
}

func (d NewCompilationDto) PinnedOption() domain.Optional[bool] {
	if d.Pinned == nil {
		return domain.None[bool]()
	}
	return domain.Some(*d.Pinned)
}

type UpdateCompilationRequest struct {
	Title  domain.Optional[string]  `json:"title"`
	Pinned domain.Optional[bool]    `json:"pinned"`
	Events domain.Optional[[]int64] `json:"events"`
}

func (d UpdateCompilationRequest) ToPatch() domain.CompilationPatch {
	return domain.CompilationPatch{Title: d.Title, Pinned: d.Pinned, EventIDs: d.Events}
}

type NewCommentDto struct {
	Text string `json:"text" validate:"notblank,max=2000"`
}

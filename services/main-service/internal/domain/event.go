package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

type EventState string

const (
	EventPending   EventState = "PENDING"
	EventPublished EventState = "PUBLISHED"
	EventCanceled  EventState = "CANCELED"
)

func ParseEventState(s string) (EventState, error) {
	switch st := EventState(strings.ToUpper(strings.TrimSpace(s))); st {
	case EventPending, EventPublished, EventCanceled:
		return st, nil
	default:
		return "", ErrValidationMeta("invalid event state", map[string]string{
			"states": "must be one of PENDING, PUBLISHED, CANCELED",
		})
	}
}

type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionPublishEvent StateAction = "PUBLISH_EVENT"
	ActionRejectEvent  StateAction = "REJECT_EVENT"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
		return ErrValidationMeta("invalid location", map[string]string{
			"location": "lat must be within [-90,90] and lon within [-180,180]",
		})
	}
	return nil
}

type Event struct {
	ID          int64
	Title       string
	Annotation  string
	Description string
	Category    Category
	Initiator   UserShort
	Location    Location
	EventDate   time.Time
	CreatedOn   time.Time
	PublishedOn *time.Time

	Paid              bool
	ParticipantLimit  int // 0 = unlimited
	RequestModeration bool
	State             EventState

	// ConfirmedRequests is kept equal to the number of CONFIRMED requests.
	// Only the participation ledger moves it.
	ConfirmedRequests int

	// Views comes from the stats service and is never persisted.
	Views int64
}

type NewEventInput struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        int64
	Location          Location
	EventDate         time.Time
	Paid              Optional[bool]
	ParticipantLimit  Optional[int]
	RequestModeration Optional[bool]
}

// NewEvent builds a PENDING event owned by initiatorID.
func NewEvent(initiatorID int64, in NewEventInput, now time.Time) (*Event, error) {
	e := &Event{
		Title:             strings.TrimSpace(in.Title),
		Annotation:        strings.TrimSpace(in.Annotation),
		Description:       strings.TrimSpace(in.Description),
		Category:          Category{ID: in.CategoryID},
		Initiator:         UserShort{ID: initiatorID},
		Location:          in.Location,
		EventDate:         in.EventDate.UTC(),
		CreatedOn:         now.UTC(),
		Paid:              in.Paid.OrElse(false),
		ParticipantLimit:  in.ParticipantLimit.OrElse(0),
		RequestModeration: in.RequestModeration.OrElse(true),
		State:             EventPending,
	}

	if err := validateText("title", e.Title, 3, 120); err != nil {
		return nil, err
	}
	if err := validateText("annotation", e.Annotation, 20, 2000); err != nil {
		return nil, err
	}
	if err := validateText("description", e.Description, 20, 7000); err != nil {
		return nil, err
	}
	if in.CategoryID <= 0 {
		return nil, ErrValidationMeta("invalid event", map[string]string{"category": "required"})
	}
	if err := e.Location.Validate(); err != nil {
		return nil, err
	}
	if e.ParticipantLimit < 0 {
		return nil, ErrValidationMeta("invalid event", map[string]string{"participantLimit": "must be >= 0"})
	}
	if err := checkLeadTime(e.EventDate, now, MinInitiatorLeadTime); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Event) IsUnlimited() bool { return e.ParticipantLimit == 0 }

// IsFull reports whether a limited event has no seats left.
func (e *Event) IsFull() bool {
	return e.ParticipantLimit > 0 && e.ConfirmedRequests >= e.ParticipantLimit
}

// RemainingCapacity is math.MaxInt for unlimited events.
func (e *Event) RemainingCapacity() int {
	if e.IsUnlimited() {
		return math.MaxInt
	}
	if r := e.ParticipantLimit - e.ConfirmedRequests; r > 0 {
		return r
	}
	return 0
}

// NeedsModeration: requests wait for the initiator only when moderation is on
// and the event has a limit.
func (e *Event) NeedsModeration() bool {
	return e.RequestModeration && e.ParticipantLimit > 0
}

// TakeSeats moves the counter up by n, refusing to cross the limit.
func (e *Event) TakeSeats(n int) error {
	if n < 0 {
		return fmt.Errorf("take seats: negative delta %d", n)
	}
	if n > e.RemainingCapacity() {
		return ErrConflict("the participant limit has been reached")
	}
	e.ConfirmedRequests += n
	return nil
}

// ReleaseSeats moves the counter down by n.
func (e *Event) ReleaseSeats(n int) error {
	if n < 0 || e.ConfirmedRequests-n < 0 {
		return fmt.Errorf("release seats: counter %d cannot drop by %d", e.ConfirmedRequests, n)
	}
	e.ConfirmedRequests -= n
	return nil
}

type EventPatch struct {
	Title             Optional[string]
	Annotation        Optional[string]
	Description       Optional[string]
	CategoryID        Optional[int64]
	Location          Optional[Location]
	EventDate         Optional[time.Time]
	Paid              Optional[bool]
	ParticipantLimit  Optional[int]
	RequestModeration Optional[bool]
	StateAction       Optional[StateAction]
}

// ApplyPatch copies every set field, validating each. minLead is the minimum
// distance between now and a new event date.
func (e *Event) ApplyPatch(p EventPatch, now time.Time, minLead time.Duration) error {
	next := *e

	if v, ok := p.Title.Get(); ok {
		next.Title = strings.TrimSpace(v)
		if err := validateText("title", next.Title, 3, 120); err != nil {
			return err
		}
	}
	if v, ok := p.Annotation.Get(); ok {
		next.Annotation = strings.TrimSpace(v)
		if err := validateText("annotation", next.Annotation, 20, 2000); err != nil {
			return err
		}
	}
	if v, ok := p.Description.Get(); ok {
		next.Description = strings.TrimSpace(v)
		if err := validateText("description", next.Description, 20, 7000); err != nil {
			return err
		}
	}
	if v, ok := p.CategoryID.Get(); ok {
		if v <= 0 {
			return ErrValidationMeta("invalid event", map[string]string{"category": "must be positive"})
		}
		if v != next.Category.ID {
			next.Category = Category{ID: v}
		}
	}
	if v, ok := p.Location.Get(); ok {
		if err := v.Validate(); err != nil {
			return err
		}
		next.Location = v
	}
	if v, ok := p.EventDate.Get(); ok {
		if err := checkLeadTime(v, now, minLead); err != nil {
			return err
		}
		next.EventDate = v.UTC()
	}
	p.Paid.Apply(&next.Paid)
	p.RequestModeration.Apply(&next.RequestModeration)
	if v, ok := p.ParticipantLimit.Get(); ok {
		if v < 0 {
			return ErrValidationMeta("invalid event", map[string]string{"participantLimit": "must be >= 0"})
		}
		if v > 0 && v < next.ConfirmedRequests {
			return ErrConflict(fmt.Sprintf("participant limit %d is below %d confirmed requests", v, next.ConfirmedRequests))
		}
		next.ParticipantLimit = v
	}

	*e = next
	return nil
}

// EnsureEditableByInitiator rejects changes to events that are already live.
func (e *Event) EnsureEditableByInitiator() error {
	if e.State == EventPublished {
		return ErrConflict("only pending or canceled events can be changed")
	}
	return nil
}

// ApplyInitiatorAction handles SEND_TO_REVIEW and CANCEL_REVIEW.
func (e *Event) ApplyInitiatorAction(a StateAction) error {
	switch a {
	case ActionSendToReview:
		e.State = EventPending
	case ActionCancelReview:
		e.State = EventCanceled
	default:
		return ErrValidationMeta("invalid state action", map[string]string{
			"stateAction": "must be SEND_TO_REVIEW or CANCEL_REVIEW",
		})
	}
	return nil
}

// ApplyAdminAction handles PUBLISH_EVENT and REJECT_EVENT.
func (e *Event) ApplyAdminAction(a StateAction, now time.Time) error {
	switch a {
	case ActionPublishEvent:
		return e.Publish(now)
	case ActionRejectEvent:
		return e.Reject()
	default:
		return ErrValidationMeta("invalid state action", map[string]string{
			"stateAction": "must be PUBLISH_EVENT or REJECT_EVENT",
		})
	}
}

func (e *Event) Publish(now time.Time) error {
	if e.State != EventPending {
		return ErrConflict(fmt.Sprintf("cannot publish the event because it is not in the right state: %s", e.State))
	}
	if e.EventDate.Before(now.Add(MinPublishLeadTime)) {
		return ErrConflict("event date must be at least one hour after publication")
	}
	t := now.UTC()
	e.State = EventPublished
	e.PublishedOn = &t
	return nil
}

func (e *Event) Reject() error {
	if e.State == EventPublished {
		return ErrConflict("cannot reject the event because it is already published")
	}
	e.State = EventCanceled
	return nil
}

func checkLeadTime(date, now time.Time, minLead time.Duration) error {
	if date.IsZero() {
		return ErrValidationMeta("invalid event", map[string]string{"eventDate": "required"})
	}
	if date.Before(now.Add(minLead)) {
		return ErrValidationMeta("invalid event", map[string]string{
			"eventDate": fmt.Sprintf("must be at least %s in the future", minLead),
		})
	}
	return nil
}

func validateText(field, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	if n < min || n > max {
		return ErrValidationMeta("invalid "+field, map[string]string{
			field: fmt.Sprintf("length must be between %d and %d", min, max),
		})
	}
	return nil
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCanceled  RequestStatus = "CANCELED"
)

// transitions lists every legal status move. REJECTED and CANCELED are terminal.
var transitions = map[RequestStatus][]RequestStatus{
	RequestPending:   {RequestConfirmed, RequestRejected, RequestCanceled},
	RequestConfirmed: {RequestCanceled},
}

func (s RequestStatus) CanTransitionTo(to RequestStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// ParseModerationTarget accepts the two statuses an initiator may set.
func ParseModerationTarget(s string) (RequestStatus, error) {
	switch st := RequestStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case RequestConfirmed, RequestRejected:
		return st, nil
	default:
		return "", ErrValidationMeta("invalid moderation status", map[string]string{
			"status": "must be CONFIRMED or REJECTED",
		})
	}
}

type ParticipationRequest struct {
	ID          int64
	EventID     int64
	RequesterID int64
	Status      RequestStatus
	Created     time.Time
}

func (r *ParticipationRequest) moveTo(to RequestStatus) error {
	if !r.Status.CanTransitionTo(to) {
		return ErrConflict(fmt.Sprintf("request %d cannot move from %s to %s", r.ID, r.Status, to))
	}
	r.Status = to
	return nil
}

// OpenRequest validates a participation request against the (locked) event and
// decides its initial status. Auto-confirmation takes a seat on ev.
func OpenRequest(ev *Event, requesterID int64, hasActive bool, now time.Time) (*ParticipationRequest, error) {
	switch {
	case ev.Initiator.ID == requesterID:
		return nil, ErrConflict("the initiator cannot request participation in their own event")
	case ev.State != EventPublished:
		return nil, ErrConflict("cannot participate in an unpublished event")
	case ev.IsFull():
		return nil, ErrConflict("the participant limit has been reached")
	case hasActive:
		return nil, ErrConflict("participation request already exists")
	}

	req := &ParticipationRequest{
		EventID:     ev.ID,
		RequesterID: requesterID,
		Status:      RequestPending,
		Created:     now.UTC(),
	}
	if !ev.NeedsModeration() {
		if err := ev.TakeSeats(1); err != nil {
			return nil, err
		}
		req.Status = RequestConfirmed
	}
	return req, nil
}

// Cancel moves the request to CANCELED and returns the status it held.
// Canceling an already canceled request changes nothing.
func (r *ParticipationRequest) Cancel() (prev RequestStatus, changed bool, err error) {
	prev = r.Status
	if prev == RequestCanceled {
		return prev, false, nil
	}
	if err := r.moveTo(RequestCanceled); err != nil {
		return prev, false, err
	}
	return prev, true, nil
}

type ModerationResult struct {
	Confirmed []ParticipationRequest
	Rejected  []ParticipationRequest
}

// Moderate applies target to reqs in order. While confirming, requests past the
// remaining capacity are rejected instead. reqs must be ordered as the caller
// supplied them; seats taken are added to ev.
func Moderate(ev *Event, reqs []*ParticipationRequest, target RequestStatus) (ModerationResult, error) {
	if target != RequestConfirmed && target != RequestRejected {
		return ModerationResult{}, ErrValidationMeta("invalid moderation status", map[string]string{
			"status": "must be CONFIRMED or REJECTED",
		})
	}
	if !ev.NeedsModeration() {
		return ModerationResult{}, ErrConflict("the event does not require request moderation")
	}
	for _, r := range reqs {
		if r.EventID != ev.ID {
			return ModerationResult{}, ErrConflict(fmt.Sprintf("request %d does not belong to event %d", r.ID, ev.ID))
		}
		if r.Status != RequestPending {
			return ModerationResult{}, ErrConflict(fmt.Sprintf("request %d must have status PENDING", r.ID))
		}
	}
	if target == RequestConfirmed && ev.IsFull() {
		return ModerationResult{}, ErrConflict("the participant limit has been reached")
	}

	res := ModerationResult{
		Confirmed: []ParticipationRequest{},
		Rejected:  []ParticipationRequest{},
	}
	for _, r := range reqs {
		if target == RequestConfirmed && !ev.IsFull() {
			if err := ev.TakeSeats(1); err != nil {
				return ModerationResult{}, err
			}
			r.Status = RequestConfirmed
			res.Confirmed = append(res.Confirmed, *r)
			continue
		}
		r.Status = RequestRejected
		res.Rejected = append(res.Rejected, *r)
	}
	return res, nil
}

// CapacityAudit compares the stored counter with a recount of CONFIRMED rows.
type CapacityAudit struct {
	EventID   int64
	Counter   int
	Confirmed int
	Repaired  bool
}

func (a CapacityAudit) Consistent() bool { return a.Counter == a.Confirmed }

// Drift is the counter minus the recount.
func (a CapacityAudit) Drift() int { return a.Counter - a.Confirmed }

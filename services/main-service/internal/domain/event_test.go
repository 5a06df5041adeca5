package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validInput() NewEventInput {
	return NewEventInput{
		Title:       "Rooftop jazz",
		Annotation:  strings.Repeat("a", 25),
		Description: strings.Repeat("d", 40),
		CategoryID:  1,
		Location:    Location{Lat: 55.75, Lon: 37.61},
		EventDate:   testNow.Add(3 * time.Hour),
	}
}

func TestNewEvent(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		e, err := NewEvent(10, validInput(), testNow)
		require.NoError(t, err)
		assert.Equal(t, EventPending, e.State)
		assert.False(t, e.Paid)
		assert.Equal(t, 0, e.ParticipantLimit)
		assert.True(t, e.RequestModeration)
		assert.Equal(t, int64(10), e.Initiator.ID)
	})

	t.Run("event_date_too_close", func(t *testing.T) {
		in := validInput()
		in.EventDate = testNow.Add(time.Hour)
		_, err := NewEvent(10, in, testNow)
		assert.True(t, IsCode(err, CodeValidation))
	})

	t.Run("short_annotation", func(t *testing.T) {
		in := validInput()
		in.Annotation = "short"
		_, err := NewEvent(10, in, testNow)
		assert.True(t, IsCode(err, CodeValidation))
	})

	t.Run("negative_limit", func(t *testing.T) {
		in := validInput()
		in.ParticipantLimit = Some(-1)
		_, err := NewEvent(10, in, testNow)
		assert.True(t, IsCode(err, CodeValidation))
	})
}

func TestEvent_Capacity(t *testing.T) {
	e := &Event{ParticipantLimit: 2, ConfirmedRequests: 1, RequestModeration: true}
	assert.False(t, e.IsFull())
	assert.Equal(t, 1, e.RemainingCapacity())
	assert.True(t, e.NeedsModeration())

	require.NoError(t, e.TakeSeats(1))
	assert.True(t, e.IsFull())
	assert.True(t, IsCode(e.TakeSeats(1), CodeConflict))

	require.NoError(t, e.ReleaseSeats(2))
	assert.Error(t, e.ReleaseSeats(1))

	unlimited := &Event{ParticipantLimit: 0, RequestModeration: true}
	assert.False(t, unlimited.NeedsModeration())
	assert.False(t, unlimited.IsFull())
	require.NoError(t, unlimited.TakeSeats(1000))
}

func TestEvent_ApplyPatch(t *testing.T) {
	t.Run("only_set_fields_change", func(t *testing.T) {
		e, err := NewEvent(1, validInput(), testNow)
		require.NoError(t, err)
		before := *e

		require.NoError(t, e.ApplyPatch(EventPatch{Paid: Some(true)}, testNow, MinInitiatorLeadTime))
		assert.True(t, e.Paid)
		assert.Equal(t, before.Title, e.Title)
		assert.Equal(t, before.EventDate, e.EventDate)
	})

	t.Run("invalid_field_leaves_event_untouched", func(t *testing.T) {
		e, err := NewEvent(1, validInput(), testNow)
		require.NoError(t, err)
		err = e.ApplyPatch(EventPatch{Paid: Some(true), Title: Some("x")}, testNow, MinInitiatorLeadTime)
		assert.True(t, IsCode(err, CodeValidation))
		assert.False(t, e.Paid)
	})

	t.Run("limit_below_confirmed_is_conflict", func(t *testing.T) {
		e := &Event{ParticipantLimit: 10, ConfirmedRequests: 5}
		err := e.ApplyPatch(EventPatch{ParticipantLimit: Some(3)}, testNow, MinInitiatorLeadTime)
		assert.True(t, IsCode(err, CodeConflict))

		require.NoError(t, e.ApplyPatch(EventPatch{ParticipantLimit: Some(0)}, testNow, MinInitiatorLeadTime))
		assert.Equal(t, 0, e.ParticipantLimit)
	})

	t.Run("event_date_lead_time", func(t *testing.T) {
		e := &Event{EventDate: testNow.Add(5 * time.Hour)}
		err := e.ApplyPatch(EventPatch{EventDate: Some(testNow.Add(time.Hour))}, testNow, MinInitiatorLeadTime)
		assert.True(t, IsCode(err, CodeValidation))
		require.NoError(t, e.ApplyPatch(EventPatch{EventDate: Some(testNow.Add(90 * time.Minute))}, testNow, MinPublishLeadTime))
	})
}

func TestEvent_StateActions(t *testing.T) {
	t.Run("publish_from_pending", func(t *testing.T) {
		e := &Event{State: EventPending, EventDate: testNow.Add(2 * time.Hour)}
		require.NoError(t, e.ApplyAdminAction(ActionPublishEvent, testNow))
		assert.Equal(t, EventPublished, e.State)
		require.NotNil(t, e.PublishedOn)
	})

	t.Run("publish_twice_conflicts", func(t *testing.T) {
		e := &Event{State: EventPublished, EventDate: testNow.Add(2 * time.Hour)}
		assert.True(t, IsCode(e.Publish(testNow), CodeConflict))
	})

	t.Run("publish_too_close_conflicts", func(t *testing.T) {
		e := &Event{State: EventPending, EventDate: testNow.Add(30 * time.Minute)}
		assert.True(t, IsCode(e.Publish(testNow), CodeConflict))
	})

	t.Run("reject_published_conflicts", func(t *testing.T) {
		e := &Event{State: EventPublished}
		assert.True(t, IsCode(e.Reject(), CodeConflict))
	})

	t.Run("initiator_actions", func(t *testing.T) {
		e := &Event{State: EventPending}
		require.NoError(t, e.ApplyInitiatorAction(ActionCancelReview))
		assert.Equal(t, EventCanceled, e.State)
		require.NoError(t, e.ApplyInitiatorAction(ActionSendToReview))
		assert.Equal(t, EventPending, e.State)
		assert.True(t, IsCode(e.ApplyInitiatorAction(ActionPublishEvent), CodeValidation))
	})

	t.Run("published_not_editable_by_initiator", func(t *testing.T) {
		assert.True(t, IsCode((&Event{State: EventPublished}).EnsureEditableByInitiator(), CodeConflict))
		assert.NoError(t, (&Event{State: EventCanceled}).EnsureEditableByInitiator())
	})
}

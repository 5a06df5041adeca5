package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publishedEvent(limit, confirmed int, moderation bool) *Event {
	return &Event{
		ID:                1,
		Initiator:         UserShort{ID: 100},
		State:             EventPublished,
		ParticipantLimit:  limit,
		ConfirmedRequests: confirmed,
		RequestModeration: moderation,
	}
}

func TestRequestStatus_Transitions(t *testing.T) {
	assert.True(t, RequestPending.CanTransitionTo(RequestConfirmed))
	assert.True(t, RequestPending.CanTransitionTo(RequestRejected))
	assert.True(t, RequestPending.CanTransitionTo(RequestCanceled))
	assert.True(t, RequestConfirmed.CanTransitionTo(RequestCanceled))

	assert.False(t, RequestConfirmed.CanTransitionTo(RequestRejected))
	assert.False(t, RequestRejected.CanTransitionTo(RequestCanceled))
	assert.False(t, RequestCanceled.CanTransitionTo(RequestPending))
}

func TestOpenRequest(t *testing.T) {
	t.Run("initiator_conflict", func(t *testing.T) {
		_, err := OpenRequest(publishedEvent(0, 0, true), 100, false, testNow)
		assert.True(t, IsCode(err, CodeConflict))
	})

	t.Run("unpublished_conflict", func(t *testing.T) {
		ev := publishedEvent(0, 0, true)
		ev.State = EventPending
		_, err := OpenRequest(ev, 1, false, testNow)
		assert.True(t, IsCode(err, CodeConflict))
	})

	t.Run("full_conflict_leaves_counter", func(t *testing.T) {
		ev := publishedEvent(2, 2, true)
		_, err := OpenRequest(ev, 1, false, testNow)
		assert.True(t, IsCode(err, CodeConflict))
		assert.Equal(t, 2, ev.ConfirmedRequests)
	})

	t.Run("duplicate_conflict", func(t *testing.T) {
		_, err := OpenRequest(publishedEvent(0, 0, true), 1, true, testNow)
		assert.True(t, IsCode(err, CodeConflict))
	})

	t.Run("moderated_stays_pending", func(t *testing.T) {
		ev := publishedEvent(5, 0, true)
		r, err := OpenRequest(ev, 1, false, testNow)
		require.NoError(t, err)
		assert.Equal(t, RequestPending, r.Status)
		assert.Equal(t, 0, ev.ConfirmedRequests)
	})

	t.Run("no_moderation_auto_confirms", func(t *testing.T) {
		ev := publishedEvent(5, 0, false)
		r, err := OpenRequest(ev, 1, false, testNow)
		require.NoError(t, err)
		assert.Equal(t, RequestConfirmed, r.Status)
		assert.Equal(t, 1, ev.ConfirmedRequests)
	})

	t.Run("unlimited_auto_confirms_even_with_moderation", func(t *testing.T) {
		ev := publishedEvent(0, 7, true)
		r, err := OpenRequest(ev, 1, false, testNow)
		require.NoError(t, err)
		assert.Equal(t, RequestConfirmed, r.Status)
		assert.Equal(t, 8, ev.ConfirmedRequests)
	})
}

func TestParticipationRequest_Cancel(t *testing.T) {
	r := &ParticipationRequest{Status: RequestConfirmed}
	prev, changed, err := r.Cancel()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, RequestConfirmed, prev)
	assert.Equal(t, RequestCanceled, r.Status)

	_, changed, err = r.Cancel()
	require.NoError(t, err)
	assert.False(t, changed)

	rejected := &ParticipationRequest{Status: RequestRejected}
	_, _, err = rejected.Cancel()
	assert.True(t, IsCode(err, CodeConflict))
}

func pending(ids ...int64) []*ParticipationRequest {
	out := make([]*ParticipationRequest, 0, len(ids))
	for _, id := range ids {
		out = append(out, &ParticipationRequest{ID: id, EventID: 1, Status: RequestPending})
	}
	return out
}

func requestIDs(rs []ParticipationRequest) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestModerate(t *testing.T) {
	t.Run("partial_confirmation_in_input_order", func(t *testing.T) {
		ev := publishedEvent(2, 1, true)
		res, err := Moderate(ev, pending(31, 12, 20), RequestConfirmed)
		require.NoError(t, err)
		assert.Equal(t, []int64{31}, requestIDs(res.Confirmed))
		assert.Equal(t, []int64{12, 20}, requestIDs(res.Rejected))
		assert.Equal(t, 2, ev.ConfirmedRequests)
	})

	t.Run("reject_all", func(t *testing.T) {
		ev := publishedEvent(2, 0, true)
		res, err := Moderate(ev, pending(1, 2), RequestRejected)
		require.NoError(t, err)
		assert.Empty(t, res.Confirmed)
		assert.Len(t, res.Rejected, 2)
		assert.Equal(t, 0, ev.ConfirmedRequests)
	})

	t.Run("no_moderation_needed_conflict", func(t *testing.T) {
		_, err := Moderate(publishedEvent(0, 0, true), pending(1), RequestConfirmed)
		assert.True(t, IsCode(err, CodeConflict))
		_, err = Moderate(publishedEvent(5, 0, false), pending(1), RequestRejected)
		assert.True(t, IsCode(err, CodeConflict))
	})

	t.Run("foreign_request_conflict", func(t *testing.T) {
		reqs := pending(1)
		reqs[0].EventID = 99
		_, err := Moderate(publishedEvent(5, 0, true), reqs, RequestConfirmed)
		assert.True(t, IsCode(err, CodeConflict))
	})

	t.Run("non_pending_conflict_without_side_effects", func(t *testing.T) {
		ev := publishedEvent(5, 0, true)
		reqs := pending(1, 2)
		reqs[1].Status = RequestConfirmed
		_, err := Moderate(ev, reqs, RequestConfirmed)
		assert.True(t, IsCode(err, CodeConflict))
		assert.Equal(t, RequestPending, reqs[0].Status)
		assert.Equal(t, 0, ev.ConfirmedRequests)
	})

	t.Run("confirm_when_full_conflict", func(t *testing.T) {
		_, err := Moderate(publishedEvent(2, 2, true), pending(1), RequestConfirmed)
		assert.True(t, IsCode(err, CodeConflict))
	})

	t.Run("reject_when_full_allowed", func(t *testing.T) {
		res, err := Moderate(publishedEvent(2, 2, true), pending(1), RequestRejected)
		require.NoError(t, err)
		assert.Len(t, res.Rejected, 1)
	})

	t.Run("bad_target", func(t *testing.T) {
		_, err := Moderate(publishedEvent(2, 0, true), pending(1), RequestCanceled)
		assert.True(t, IsCode(err, CodeValidation))
	})
}

// Replays random create/cancel/moderate sequences and checks the counter
// against a recount after every step.
func TestCounterMatchesConfirmedCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		ev := publishedEvent(rng.Intn(6), 0, rng.Intn(2) == 0)
		var reqs []*ParticipationRequest
		nextID := int64(1)

		for step := 0; step < 60; step++ {
			switch rng.Intn(3) {
			case 0:
				requester := int64(rng.Intn(10) + 1)
				active := false
				for _, r := range reqs {
					if r.RequesterID == requester && r.Status != RequestCanceled {
						active = true
					}
				}
				r, err := OpenRequest(ev, requester, active, testNow)
				if err == nil {
					r.ID = nextID
					nextID++
					reqs = append(reqs, r)
				}
			case 1:
				if len(reqs) == 0 {
					continue
				}
				r := reqs[rng.Intn(len(reqs))]
				prev, changed, err := r.Cancel()
				if err == nil && changed && prev == RequestConfirmed {
					require.NoError(t, ev.ReleaseSeats(1))
				}
			case 2:
				var batch []*ParticipationRequest
				for _, r := range reqs {
					if r.Status == RequestPending && rng.Intn(2) == 0 {
						batch = append(batch, r)
					}
				}
				target := RequestConfirmed
				if rng.Intn(3) == 0 {
					target = RequestRejected
				}
				_, _ = Moderate(ev, batch, target)
			}

			confirmed := 0
			for _, r := range reqs {
				if r.Status == RequestConfirmed {
					confirmed++
				}
			}
			require.Equal(t, confirmed, ev.ConfirmedRequests, "round %d step %d", round, step)
			if ev.ParticipantLimit > 0 {
				require.LessOrEqual(t, ev.ConfirmedRequests, ev.ParticipantLimit)
			}
		}
	}
}

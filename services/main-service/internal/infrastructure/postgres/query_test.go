package postgres

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	eventapp "github.com/baechuer/explore-with-me/services/main-service/internal/application/event"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeNextRetry_Bounds(t *testing.T) {
	rand.Seed(1)

	d0 := computeNextRetry(-1)
	require.GreaterOrEqual(t, d0, 4*time.Second)
	require.LessOrEqual(t, d0, 6*time.Second)

	d10 := computeNextRetry(10)
	require.GreaterOrEqual(t, d10, 900*time.Second)
	require.LessOrEqual(t, d10, 1150*time.Second)

	d20 := computeNextRetry(20)
	require.GreaterOrEqual(t, d20, 1600*time.Second)
	require.LessOrEqual(t, d20, 2000*time.Second)
}

func TestBuildPublicSearch(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	paid := true

	sql, args := buildPublicSearch(eventapp.PublicFilter{
		Text:          "50%_off",
		Categories:    []int64{1, 2},
		Paid:          &paid,
		RangeStart:    &start,
		OnlyAvailable: true,
	}, domain.Page{From: 20, Size: 10})

	assert.Contains(t, sql, "e.state = 'PUBLISHED'")
	assert.Contains(t, sql, "(e.annotation ILIKE $1 OR e.description ILIKE $1)")
	assert.Contains(t, sql, "e.category_id = ANY($2)")
	assert.Contains(t, sql, "e.paid = $3")
	assert.Contains(t, sql, "e.event_date >= $4")
	assert.Contains(t, sql, "confirmed_requests < e.participant_limit")
	assert.Contains(t, sql, "ORDER BY e.event_date, e.id LIMIT $5 OFFSET $6")
	assert.NotContains(t, sql, "e.event_date <=")

	require.Len(t, args, 6)
	assert.Equal(t, `%50\%\_off%`, args[0])
	assert.Equal(t, []int64{1, 2}, args[1])
	assert.Equal(t, true, args[2])
	assert.Equal(t, 10, args[4])
	assert.Equal(t, 20, args[5])
}

func TestBuildAdminSearch(t *testing.T) {
	sql, args := buildAdminSearch(eventapp.AdminFilter{
		Users:  []int64{7},
		States: []domain.EventState{domain.EventPending, domain.EventPublished},
	}, domain.DefaultPage())

	assert.Contains(t, sql, "WHERE e.initiator_id = ANY($1) AND e.state = ANY($2)")
	assert.Contains(t, sql, "ORDER BY e.id LIMIT $3 OFFSET $4")
	require.Len(t, args, 4)
	assert.Equal(t, []string{"PENDING", "PUBLISHED"}, args[1])

	sql, args = buildAdminSearch(eventapp.AdminFilter{}, domain.DefaultPage())
	assert.NotContains(t, sql, "WHERE")
	assert.Len(t, args, 2)
}

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil, "x"))
	assert.True(t, domain.IsCode(mapErr(pgx.ErrNoRows, "gone"), domain.CodeNotFound))
	assert.True(t, domain.IsCode(mapErr(&pgconn.PgError{Code: pgCheckViolation}, ""), domain.CodeConflict))
	assert.True(t, domain.IsCode(mapErr(&pgconn.PgError{Code: pgUniqueViolation}, ""), domain.CodeConflict))

	other := errors.New("boom")
	assert.Equal(t, other, mapErr(other, "x"))
}

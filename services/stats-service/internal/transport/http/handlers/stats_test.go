package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) RecordHit(ctx context.Context, h domain.EndpointHit) (*domain.EndpointHit, error) {
	args := m.Called(ctx, h)
	if v := args.Get(0); v != nil {
		return v.(*domain.EndpointHit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatsService) QueryViews(ctx context.Context, q domain.StatsQuery) ([]domain.ViewStats, error) {
	args := m.Called(ctx, q)
	if v := args.Get(0); v != nil {
		return v.([]domain.ViewStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatsHandler_Hit(t *testing.T) {
	ts := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)

	t.Run("created_with_stored_hit", func(t *testing.T) {
		svc := new(MockStatsService)
		h := NewStatsHandler(svc)

		svc.On("RecordHit", mock.Anything, domain.EndpointHit{
			App: "ewm-main-service", URI: "/events/1", IP: "192.163.0.1", Timestamp: ts,
		}).Return(&domain.EndpointHit{
			ID: 1, App: "ewm-main-service", URI: "/events/1", IP: "192.163.0.1", Timestamp: ts,
		}, nil).Once()

		body := `{"app":"ewm-main-service","uri":"/events/1","ip":"192.163.0.1","timestamp":"2025-05-01 08:30:00"}`
		rr := httptest.NewRecorder()
		h.Hit(rr, httptest.NewRequest(http.MethodPost, "/hit", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got hitResp
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "2025-05-01 08:30:00", got.Timestamp)
		svc.AssertExpectations(t)
	})

	t.Run("bad_timestamp_is_400", func(t *testing.T) {
		svc := new(MockStatsService)
		h := NewStatsHandler(svc)

		body := `{"app":"a","uri":"/","ip":"1.1.1.1","timestamp":"2025-05-01T08:30:00Z"}`
		rr := httptest.NewRecorder()
		h.Hit(rr, httptest.NewRequest(http.MethodPost, "/hit", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "timestamp")
		svc.AssertNotCalled(t, "RecordHit", mock.Anything, mock.Anything)
	})

	t.Run("malformed_body_is_400", func(t *testing.T) {
		h := NewStatsHandler(new(MockStatsService))
		rr := httptest.NewRecorder()
		h.Hit(rr, httptest.NewRequest(http.MethodPost, "/hit", strings.NewReader("{")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestStatsHandler_Stats(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	t.Run("parses_repeated_and_comma_separated_uris", func(t *testing.T) {
		svc := new(MockStatsService)
		h := NewStatsHandler(svc)

		svc.On("QueryViews", mock.Anything, domain.StatsQuery{
			Start: start, End: end, URIs: []string{"/events/1", "/events/2", "/events/3"}, Unique: true,
		}).Return([]domain.ViewStats{{App: "ewm-main-service", URI: "/events/1", Hits: 2}}, nil).Once()

		url := "/stats?start=2025-01-01%2000:00:00&end=2025-12-31%2023:59:59&uris=/events/1,/events/2&uris=/events/3&unique=true"
		rr := httptest.NewRecorder()
		h.Stats(rr, httptest.NewRequest(http.MethodGet, url, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[{"app":"ewm-main-service","uri":"/events/1","hits":2}]`, rr.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing_start_is_400", func(t *testing.T) {
		h := NewStatsHandler(new(MockStatsService))
		rr := httptest.NewRecorder()
		h.Stats(rr, httptest.NewRequest(http.MethodGet, "/stats?end=2025-12-31%2023:59:59", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("start_after_end_propagates_validation_error", func(t *testing.T) {
		svc := new(MockStatsService)
		h := NewStatsHandler(svc)
		svc.On("QueryViews", mock.Anything, mock.Anything).
			Return(nil, domain.ErrValidation("start must not be after end")).Once()

		url := "/stats?start=2025-12-31%2023:59:59&end=2025-01-01%2000:00:00"
		rr := httptest.NewRecorder()
		h.Stats(rr, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad_unique_flag_is_400", func(t *testing.T) {
		h := NewStatsHandler(new(MockStatsService))
		url := "/stats?start=2025-01-01%2000:00:00&end=2025-12-31%2023:59:59&unique=maybe"
		rr := httptest.NewRecorder()
		h.Stats(rr, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

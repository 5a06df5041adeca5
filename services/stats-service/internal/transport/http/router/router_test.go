package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/application/stats"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/config"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }

type sliceRepo struct{ hits []domain.EndpointHit }

func (s *sliceRepo) SaveHit(_ context.Context, h *domain.EndpointHit) error {
	h.ID = int64(len(s.hits) + 1)
	s.hits = append(s.hits, *h)
	return nil
}

func (s *sliceRepo) Stats(_ context.Context, q domain.StatsQuery) ([]domain.ViewStats, error) {
	ips := map[string]bool{}
	var total int64
	for _, h := range s.hits {
		total++
		ips[h.IP] = true
	}
	n := total
	if q.Unique {
		n = int64(len(ips))
	}
	return []domain.ViewStats{{App: "ewm-main-service", URI: "/events/1", Hits: n}}, nil
}

func TestRouter_HitThenStats(t *testing.T) {
	repo := &sliceRepo{}
	svc := stats.New(repo, fixedClock{})
	cfg := &config.Config{RLEnabled: true, RLLimit: 100, RLWindow: time.Minute}
	h := New(handlers.NewStatsHandler(svc), handlers.NewHealthHandler(nil), cfg)

	for _, ip := range []string{"A", "A", "B"} {
		body := `{"app":"ewm-main-service","uri":"/events/1","ip":"` + ip + `","timestamp":"2025-01-01 10:00:00"}`
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/hit", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/stats?start=2024-01-01%2000:00:00&end=2026-01-01%2000:00:00&uris=/events/1&unique=true", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"app":"ewm-main-service","uri":"/events/1","hits":2}]`, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	svc := stats.New(&sliceRepo{}, fixedClock{})
	cfg := &config.Config{RLEnabled: true, RLLimit: 1, RLWindow: time.Minute}
	h := New(handlers.NewStatsHandler(svc), handlers.NewHealthHandler(nil), cfg)

	url := "/stats?start=2024-01-01%2000:00:00&end=2026-01-01%2000:00:00"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

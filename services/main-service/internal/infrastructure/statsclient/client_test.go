package statsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Hit(t *testing.T) {
	var got hitReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/hit", r.URL.Path)
		assert.Equal(t, "rid-9", r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	ctx := appCtx.WithRequestID(context.Background(), "rid-9")
	err := c.Hit(ctx, domain.Hit{
		App:       "ewm-main-service",
		URI:       "/events/1",
		IP:        "192.163.0.1",
		Timestamp: time.Date(2030, 9, 6, 11, 0, 23, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "2030-09-06 11:00:23", got.Timestamp)
	assert.Equal(t, "/events/1", got.URI)
}

func TestClient_Views(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/stats", r.URL.Path)
		assert.Equal(t, "2030-01-01 00:00:00", q.Get("start"))
		assert.Equal(t, "2030-12-31 23:59:59", q.Get("end"))
		assert.Equal(t, []string{"/events/1", "/events/2"}, q["uris"])
		assert.Equal(t, "true", q.Get("unique"))
		_, _ = w.Write([]byte(`[{"app":"ewm-main-service","uri":"/events/1","hits":6}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	out, err := c.Views(context.Background(), domain.ViewsQuery{
		Start:  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2030, 12, 31, 23, 59, 59, 0, time.UTC),
		URIs:   []string{"/events/1", "/events/2"},
		Unique: true,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.EqualValues(t, 6, out[0].Hits)
}

func TestClient_Errors(t *testing.T) {
	t.Run("error envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"validation_error","message":"start must not be after end"}}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, time.Second).Views(context.Background(), domain.ViewsQuery{})
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadRequest, se.StatusCode)
		assert.Equal(t, "validation_error", se.Code)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		err := New(srv.URL, 50*time.Millisecond).Hit(context.Background(), domain.Hit{})
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := New(url, time.Second).Hit(context.Background(), domain.Hit{})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

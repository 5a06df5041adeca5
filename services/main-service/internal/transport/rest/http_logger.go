package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/explore-with-me/services/main-service/internal/metrics"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(p []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}

// quietRoutes are polled by the platform; only their failures are logged.
var quietRoutes = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// HTTPLogger writes the access log and the request metrics. Metrics are keyed
// by route pattern so path ids do not explode label cardinality.
func HTTPLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		dur := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, rec.status, dur)

		if quietRoutes[route] && rec.status < http.StatusBadRequest {
			return
		}
		l := logger.WithCtx(r.Context())
		ev := l.Info()
		if rec.status >= http.StatusInternalServerError {
			ev = l.Error()
		} else if rec.status >= http.StatusBadRequest {
			ev = l.Warn()
		}
		ev.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Str("ip", clientIP(r)).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", dur).
			Msg("http_request")
	})
}

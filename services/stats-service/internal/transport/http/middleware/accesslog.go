package middleware

import (
	"net/http"
	"time"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	zlog "github.com/rs/zerolog/log"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// AccessLog feeds the HTTP metrics and writes one line per request, at a
// level picked from the status.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		latency := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, sw.status, latency)

		// /hit is the hot path; successful writes only show up at debug
		ev := zlog.Info()
		switch {
		case sw.status >= 500:
			ev = zlog.Error()
		case sw.status >= 400:
			ev = zlog.Warn()
		case route == "/hit":
			ev = zlog.Debug()
		}
		ev.
			Str("method", r.Method).
			Str("route", route).
			Str("query", r.URL.RawQuery).
			Int("status", sw.status).
			Int("bytes", sw.bytes).
			Dur("latency", latency).
			Str("remote_ip", r.RemoteAddr).
			Str("request_id", r.Header.Get(requestIDHeader)).
			Msg("http_request")
	})
}

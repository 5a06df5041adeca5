package rest

import (
	"net/http"

	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 64
)

// RequestID propagates the caller's request id, or mints one, into context
// and the response header. The same id is forwarded to the stats service.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if !acceptableRequestID(rid) {
			rid = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(appCtx.WithRequestID(r.Context(), rid)))
	})
}

// acceptableRequestID keeps inbound ids short and printable so they are safe
// to echo into headers and log lines.
func acceptableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

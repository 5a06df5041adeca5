package domain

import (
	"strings"
	"time"
)

// TimeLayout is the wire format for every timestamp the service accepts or returns.
const TimeLayout = "2006-01-02 15:04:05"

// EndpointHit is a single recorded request against a tracked application.
// Hits are append-only.
type EndpointHit struct {
	ID        int64
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}

func (h *EndpointHit) Normalize() {
	h.App = strings.TrimSpace(h.App)
	h.URI = strings.TrimSpace(h.URI)
	h.IP = strings.TrimSpace(h.IP)
}

func (h EndpointHit) Validate() error {
	meta := map[string]string{}
	if h.App == "" {
		meta["app"] = "required"
	}
	if h.URI == "" {
		meta["uri"] = "required"
	}
	if h.IP == "" {
		meta["ip"] = "required"
	}
	if len(h.App) > 255 {
		meta["app"] = "must be at most 255 characters"
	}
	if len(h.URI) > 512 {
		meta["uri"] = "must be at most 512 characters"
	}
	if len(meta) > 0 {
		return ErrValidationMeta("invalid hit", meta)
	}
	return nil
}

// ViewStats is one aggregated (app, uri) row.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// StatsQuery selects hits in the closed interval [Start, End].
// Empty URIs means every uri; Unique counts distinct IPs instead of rows.
type StatsQuery struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}

func (q StatsQuery) Validate() error {
	if q.Start.IsZero() || q.End.IsZero() {
		return ErrValidationMeta("invalid time range", map[string]string{
			"start": "required",
			"end":   "required",
		})
	}
	if q.Start.After(q.End) {
		return ErrValidationMeta("invalid time range", map[string]string{
			"start": "must not be after end",
		})
	}
	return nil
}

// NormalizedURIs trims, drops blanks and removes duplicates while keeping order.
func (q StatsQuery) NormalizedURIs() []string {
	if len(q.URIs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(q.URIs))
	out := make([]string, 0, len(q.URIs))
	for _, u := range q.URIs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

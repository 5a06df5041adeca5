package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/explore-with-me/services/stats-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/stats-service/internal/transport/http/response"
	"github.com/go-chi/render"
)

type StatsService interface {
	RecordHit(ctx context.Context, h domain.EndpointHit) (*domain.EndpointHit, error)
	QueryViews(ctx context.Context, q domain.StatsQuery) ([]domain.ViewStats, error)
}

type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

type hitReq struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type hitResp struct {
	ID        int64  `json:"id"`
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// Hit handles POST /hit.
func (h *StatsHandler) Hit(w http.ResponseWriter, r *http.Request) {
	var req hitReq
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Err(w, r, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON",
		}))
		return
	}

	hit := domain.EndpointHit{App: req.App, URI: req.URI, IP: req.IP}
	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		t, err := time.Parse(domain.TimeLayout, ts)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid hit", map[string]string{
				"timestamp": "must be formatted as yyyy-MM-dd HH:mm:ss",
			}))
			return
		}
		hit.Timestamp = t
	}

	saved, err := h.svc.RecordHit(r.Context(), hit)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, hitResp{
		ID:        saved.ID,
		App:       saved.App,
		URI:       saved.URI,
		IP:        saved.IP,
		Timestamp: saved.Timestamp.Format(domain.TimeLayout),
	})
}

// Stats handles GET /stats?start&end&uris&unique.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := parseTimeParam(q.Get("start"))
	if err != nil {
		response.Err(w, r, domain.ErrInvalidParam("start", "required, formatted as yyyy-MM-dd HH:mm:ss"))
		return
	}
	end, err := parseTimeParam(q.Get("end"))
	if err != nil {
		response.Err(w, r, domain.ErrInvalidParam("end", "required, formatted as yyyy-MM-dd HH:mm:ss"))
		return
	}

	unique := false
	if v := strings.TrimSpace(q.Get("unique")); v != "" {
		unique, err = strconv.ParseBool(v)
		if err != nil {
			response.Err(w, r, domain.ErrInvalidParam("unique", "must be true or false"))
			return
		}
	}

	// uris may be repeated (?uris=a&uris=b) or comma separated (?uris=a,b)
	var uris []string
	for _, v := range q["uris"] {
		uris = append(uris, strings.Split(v, ",")...)
	}

	out, err := h.svc.QueryViews(r.Context(), domain.StatsQuery{
		Start:  start,
		End:    end,
		URIs:   uris,
		Unique: unique,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, out)
}

func parseTimeParam(v string) (time.Time, error) {
	return time.Parse(domain.TimeLayout, strings.TrimSpace(v))
}

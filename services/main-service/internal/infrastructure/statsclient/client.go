package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/baechuer/explore-with-me/services/main-service/internal/pkg/logger"
)

var (
	ErrTimeout     = errors.New("stats_timeout")
	ErrUnavailable = errors.New("stats_unavailable")
)

type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stats error [%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the stats service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// per-request timeouts come from the context
		http:    &http.Client{},
		timeout: timeout,
	}
}

type hitReq struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// Hit records one public read.
func (c *Client) Hit(ctx context.Context, h domain.Hit) error {
	body, err := json.Marshal(hitReq{
		App:       h.App,
		URI:       h.URI,
		IP:        h.IP,
		Timestamp: h.Timestamp.UTC().Format(domain.TimeLayout),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

// Views queries aggregated hits for the given uris.
func (c *Client) Views(ctx context.Context, q domain.ViewsQuery) ([]domain.ViewStat, error) {
	params := url.Values{}
	params.Set("start", q.Start.UTC().Format(domain.TimeLayout))
	params.Set("end", q.End.UTC().Format(domain.TimeLayout))
	for _, u := range q.URIs {
		params.Add("uris", u)
	}
	params.Set("unique", strconv.FormatBool(q.Unique))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	out := []domain.ViewStat{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if reqID := appCtx.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		logger.WithCtx(ctx).Debug().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("stats_request_failed")
		return nil, mapError(err)
	}
	// cancel once the body has been read
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	return ErrUnavailable
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(resp *http.Response) error {
	var e apiError
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error.Code != "" {
		return &StatusError{StatusCode: resp.StatusCode, Code: e.Error.Code, Message: e.Error.Message}
	}
	return &StatusError{
		StatusCode: resp.StatusCode,
		Code:       "stats_error",
		Message:    fmt.Sprintf("unexpected status: %d", resp.StatusCode),
	}
}

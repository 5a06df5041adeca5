package rest

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/dto"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidationMeta("invalid path param", map[string]string{
			name: "must be a positive integer",
		})
	}
	return id, nil
}

// pageParams reads from/size, defaulting to 0/10.
func pageParams(q url.Values) (domain.Page, error) {
	p := domain.DefaultPage()
	meta := map[string]string{}
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			meta["from"] = "must be an integer"
		}
		p.From = n
	}
	if v := strings.TrimSpace(q.Get("size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			meta["size"] = "must be an integer"
		}
		p.Size = n
	}
	if len(meta) > 0 {
		return domain.Page{}, domain.ErrValidationMeta("invalid pagination", meta)
	}
	if err := p.Validate(); err != nil {
		return domain.Page{}, err
	}
	return p, nil
}

// listParam accepts both ?k=a&k=b and ?k=a,b.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func idsParam(q url.Values, key string) ([]int64, error) {
	raw := listParam(q, key)
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
				key: "must be a list of positive integers",
			})
		}
		out = append(out, id)
	}
	return out, nil
}

func boolParam(q url.Values, key string) (*bool, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
			key: "must be true or false",
		})
	}
	return &b, nil
}

func timeParam(q url.Values, key string) (*time.Time, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	t, err := dto.ParseDateTime(v)
	if err != nil {
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
			key: "must be formatted as yyyy-MM-dd HH:mm:ss",
		})
	}
	return &t, nil
}

// decodeBody decodes JSON into dst and, when validated is set, runs the
// struct tag rules.
func decodeBody(r *http.Request, dst any, validated bool) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		})
	}
	if validated {
		return dto.Validate(dst)
	}
	return nil
}

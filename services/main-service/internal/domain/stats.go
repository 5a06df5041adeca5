package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hit is one request reported to the stats service.
type Hit struct {
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}

type ViewStat struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

type ViewsQuery struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}

const eventURIPrefix = "/events/"

func EventURI(id int64) string { return fmt.Sprintf("%s%d", eventURIPrefix, id) }

// EventIDFromURI parses "/events/{id}"; ok is false for any other uri.
func EventIDFromURI(uri string) (int64, bool) {
	rest, found := strings.CutPrefix(uri, eventURIPrefix)
	if !found || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

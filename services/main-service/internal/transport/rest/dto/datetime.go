package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

// DateTime is a UTC timestamp carried as "yyyy-MM-dd HH:mm:ss".
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime { return DateTime{Time: t.UTC()} }

func NewDateTimePtr(t *time.Time) *DateTime {
	if t == nil {
		return nil
	}
	d := NewDateTime(*t)
	return &d
}

func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(domain.TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UTC().Format(domain.TimeLayout))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

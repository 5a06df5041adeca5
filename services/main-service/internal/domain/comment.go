package domain

import (
	"strings"
	"time"
)

type Comment struct {
	ID        int64
	EventID   int64
	Author    UserShort
	Text      string
	CreatedOn time.Time
	UpdatedOn *time.Time
}

// NewComment only accepts comments on published events.
func NewComment(ev *Event, authorID int64, text string, now time.Time) (*Comment, error) {
	if ev.State != EventPublished {
		return nil, ErrConflict("comments are only allowed on published events")
	}
	c := &Comment{
		EventID:   ev.ID,
		Author:    UserShort{ID: authorID},
		Text:      strings.TrimSpace(text),
		CreatedOn: now.UTC(),
	}
	if err := validateText("text", c.Text, 1, 2000); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Comment) Edit(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if err := validateText("text", text, 1, 2000); err != nil {
		return err
	}
	t := now.UTC()
	c.Text = text
	c.UpdatedOn = &t
	return nil
}

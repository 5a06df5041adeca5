package domain

import "strings"

type Compilation struct {
	ID       int64
	Title    string
	Pinned   bool
	EventIDs []int64
	Events   []*Event
}

type CompilationPatch struct {
	Title    Optional[string]
	Pinned   Optional[bool]
	EventIDs Optional[[]int64]
}

func NewCompilation(title string, pinned bool, eventIDs []int64) (*Compilation, error) {
	c := &Compilation{Title: strings.TrimSpace(title), Pinned: pinned, EventIDs: UniqueIDs(eventIDs)}
	if err := validateText("title", c.Title, 1, 50); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compilation) ApplyPatch(p CompilationPatch) error {
	if v, ok := p.Title.Get(); ok {
		v = strings.TrimSpace(v)
		if err := validateText("title", v, 1, 50); err != nil {
			return err
		}
		c.Title = v
	}
	p.Pinned.Apply(&c.Pinned)
	if v, ok := p.EventIDs.Get(); ok {
		c.EventIDs = UniqueIDs(v)
	}
	return nil
}

// UniqueIDs drops duplicates while keeping first-seen order.
func UniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

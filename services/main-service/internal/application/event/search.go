package event

import (
	"context"
	"sort"
	"strings"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

// viewsSortWindow caps the matches loaded when ordering by views in memory.
const viewsSortWindow = 10000

func (s *Service) SearchAdmin(ctx context.Context, f AdminFilter, page domain.Page) ([]*domain.Event, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := checkRange(f.RangeStart != nil && f.RangeEnd != nil && f.RangeStart.After(*f.RangeEnd)); err != nil {
		return nil, err
	}
	events, err := s.repo.SearchAdmin(ctx, f, page)
	if err != nil {
		return nil, err
	}
	s.Enrich(ctx, events...)
	return events, nil
}

// SearchPublic lists published events. Without a range only future events
// are returned.
func (s *Service) SearchPublic(ctx context.Context, f PublicFilter, page domain.Page, v Visit) ([]*domain.Event, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := checkRange(f.RangeStart != nil && f.RangeEnd != nil && f.RangeStart.After(*f.RangeEnd)); err != nil {
		return nil, err
	}
	if f.Sort == "" {
		f.Sort = SortEventDate
	}
	f.Text = strings.TrimSpace(f.Text)
	if f.RangeStart == nil && f.RangeEnd == nil {
		now := s.clock.Now().UTC()
		f.RangeStart = &now
	}

	s.recordHit(ctx, v)

	if f.Sort != SortViews {
		events, err := s.repo.SearchPublic(ctx, f, page)
		if err != nil {
			return nil, err
		}
		s.Enrich(ctx, events...)
		return events, nil
	}

	all, err := s.repo.SearchPublic(ctx, f, domain.Page{From: 0, Size: viewsSortWindow})
	if err != nil {
		return nil, err
	}
	s.Enrich(ctx, all...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Views != all[j].Views {
			return all[i].Views > all[j].Views
		}
		return all[i].EventDate.Before(all[j].EventDate)
	})
	return paginate(all, page), nil
}

func checkRange(inverted bool) error {
	if inverted {
		return domain.ErrValidationMeta("invalid date range", map[string]string{
			"rangeStart": "must not be after rangeEnd",
		})
	}
	return nil
}

func paginate(events []*domain.Event, page domain.Page) []*domain.Event {
	if page.From >= len(events) {
		return []*domain.Event{}
	}
	end := page.From + page.Size
	if end > len(events) {
		end = len(events)
	}
	return events[page.From:end]
}

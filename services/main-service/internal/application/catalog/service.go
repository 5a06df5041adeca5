package catalog

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type Service struct {
	repo     Repo
	enricher Enricher
}

func NewService(repo Repo, enricher Enricher) *Service {
	return &Service{repo: repo, enricher: enricher}
}

// --- Categories ---

func (s *Service) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	c, err := domain.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	next, err := domain.NewCategory(name)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Name == next.Name {
		return c, nil
	}
	c.Name = next.Name
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, page domain.Page) ([]domain.Category, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, page)
}

// --- Compilations ---

func (s *Service) CreateCompilation(ctx context.Context, title string, pinned domain.Optional[bool], eventIDs []int64) (*domain.Compilation, error) {
	c, err := domain.NewCompilation(title, pinned.OrElse(false), eventIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkEvents(ctx, c.EventIDs); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCompilation(ctx, c); err != nil {
		return nil, err
	}
	return s.GetCompilation(ctx, c.ID)
}

func (s *Service) UpdateCompilation(ctx context.Context, id int64, p domain.CompilationPatch) (*domain.Compilation, error) {
	c, err := s.repo.GetCompilation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyPatch(p); err != nil {
		return nil, err
	}
	if p.EventIDs.IsSet() {
		if err := s.checkEvents(ctx, c.EventIDs); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateCompilation(ctx, c); err != nil {
		return nil, err
	}
	return s.GetCompilation(ctx, id)
}

func (s *Service) DeleteCompilation(ctx context.Context, id int64) error {
	return s.repo.DeleteCompilation(ctx, id)
}

func (s *Service) GetCompilation(ctx context.Context, id int64) (*domain.Compilation, error) {
	c, err := s.repo.GetCompilation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachEvents(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCompilations(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	list, err := s.repo.ListCompilations(ctx, pinned, page)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if err := s.attachEvents(ctx, c); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *Service) checkEvents(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.repo.EventsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	have := make(map[int64]bool, len(found))
	for _, e := range found {
		have[e.ID] = true
	}
	for _, id := range ids {
		if !have[id] {
			return domain.ErrMissing("event", id)
		}
	}
	return nil
}

func (s *Service) attachEvents(ctx context.Context, c *domain.Compilation) error {
	c.Events = []*domain.Event{}
	if len(c.EventIDs) == 0 {
		return nil
	}
	events, err := s.repo.EventsByIDs(ctx, c.EventIDs)
	if err != nil {
		return err
	}
	if s.enricher != nil {
		s.enricher.Enrich(ctx, events...)
	}
	c.Events = events
	return nil
}

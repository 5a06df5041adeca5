package catalog

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type Repo interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, page domain.Page) ([]domain.Category, error)

	CreateCompilation(ctx context.Context, c *domain.Compilation) error
	UpdateCompilation(ctx context.Context, c *domain.Compilation) error
	DeleteCompilation(ctx context.Context, id int64) error
	GetCompilation(ctx context.Context, id int64) (*domain.Compilation, error)
	ListCompilations(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error)

	EventsByIDs(ctx context.Context, ids []int64) ([]*domain.Event, error)
}

// Enricher fills in view counts for events shown inside compilations.
type Enricher interface {
	Enrich(ctx context.Context, events ...*domain.Event)
}

package user

import (
	"context"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type Repo interface {
	Create(ctx context.Context, u *domain.User) error
	// List returns users with the given ids, or all users when ids is empty.
	List(ctx context.Context, ids []int64, page domain.Page) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, name, email string) (*domain.User, error) {
	u, err := domain.NewUser(name, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, ids []int64, page domain.Page) ([]domain.User, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, domain.UniqueIDs(ids), page)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

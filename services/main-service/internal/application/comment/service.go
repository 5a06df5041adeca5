package comment

import (
	"context"
	"time"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

type Repo interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)

	Create(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id int64) error
	// ListByEvent returns newest first.
	ListByEvent(ctx context.Context, eventID int64, page domain.Page) ([]domain.Comment, error)
}

type Service struct {
	repo  Repo
	clock Clock
}

func NewService(repo Repo, clock Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func commentNotFound(id int64) error {
	return domain.ErrMissing("comment", id)
}

func (s *Service) Create(ctx context.Context, authorID, eventID int64, text string) (*domain.Comment, error) {
	ok, err := s.repo.UserExists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound("user not found")
	}
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewComment(ev, authorID, text, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, c.ID)
}

// own loads a comment and hides it from anyone but its author.
func (s *Service) own(ctx context.Context, authorID, id int64) (*domain.Comment, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Author.ID != authorID {
		return nil, commentNotFound(id)
	}
	return c, nil
}

func (s *Service) Edit(ctx context.Context, authorID, id int64, text string) (*domain.Comment, error) {
	c, err := s.own(ctx, authorID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Edit(text, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteOwn(ctx context.Context, authorID, id int64) error {
	if _, err := s.own(ctx, authorID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteByAdmin(ctx context.Context, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListForEvent(ctx context.Context, eventID int64, page domain.Page) ([]domain.Comment, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.State != domain.EventPublished {
		return nil, domain.ErrMissing("event", eventID)
	}
	return s.repo.ListByEvent(ctx, eventID, page)
}

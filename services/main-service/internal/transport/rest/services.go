package rest

import (
	"context"

	eventapp "github.com/baechuer/explore-with-me/services/main-service/internal/application/event"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
)

type RequestService interface {
	Create(ctx context.Context, requesterID, eventID int64) (*domain.ParticipationRequest, error)
	Cancel(ctx context.Context, requesterID, requestID int64) (*domain.ParticipationRequest, error)
	ListMine(ctx context.Context, requesterID int64) ([]domain.ParticipationRequest, error)
	ListForEvent(ctx context.Context, initiatorID, eventID int64) ([]domain.ParticipationRequest, error)
	Moderate(ctx context.Context, initiatorID, eventID int64, requestIDs []int64, status string) (domain.ModerationResult, error)
	Audit(ctx context.Context, eventID int64) (domain.CapacityAudit, error)
	Reconcile(ctx context.Context, eventID int64) (domain.CapacityAudit, error)
}

type EventService interface {
	Create(ctx context.Context, initiatorID int64, in domain.NewEventInput) (*domain.Event, error)
	GetPublic(ctx context.Context, id int64, v eventapp.Visit) (*domain.Event, error)
	GetForInitiator(ctx context.Context, initiatorID, id int64) (*domain.Event, error)
	ListForInitiator(ctx context.Context, initiatorID int64, page domain.Page) ([]*domain.Event, error)
	UpdateByInitiator(ctx context.Context, initiatorID, id int64, p domain.EventPatch) (*domain.Event, error)
	UpdateByAdmin(ctx context.Context, id int64, p domain.EventPatch) (*domain.Event, error)
	SearchAdmin(ctx context.Context, f eventapp.AdminFilter, page domain.Page) ([]*domain.Event, error)
	SearchPublic(ctx context.Context, f eventapp.PublicFilter, page domain.Page, v eventapp.Visit) ([]*domain.Event, error)
}

type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, page domain.Page) ([]domain.Category, error)

	CreateCompilation(ctx context.Context, title string, pinned domain.Optional[bool], eventIDs []int64) (*domain.Compilation, error)
	UpdateCompilation(ctx context.Context, id int64, p domain.CompilationPatch) (*domain.Compilation, error)
	DeleteCompilation(ctx context.Context, id int64) error
	GetCompilation(ctx context.Context, id int64) (*domain.Compilation, error)
	ListCompilations(ctx context.Context, pinned *bool, page domain.Page) ([]*domain.Compilation, error)
}

type CommentService interface {
	Create(ctx context.Context, authorID, eventID int64, text string) (*domain.Comment, error)
	Edit(ctx context.Context, authorID, id int64, text string) (*domain.Comment, error)
	DeleteOwn(ctx context.Context, authorID, id int64) error
	DeleteByAdmin(ctx context.Context, id int64) error
	ListForEvent(ctx context.Context, eventID int64, page domain.Page) ([]domain.Comment, error)
}

type UserService interface {
	Register(ctx context.Context, name, email string) (*domain.User, error)
	List(ctx context.Context, ids []int64, page domain.Page) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	requests RequestService
	events   EventService
	catalog  CatalogService
	comments CommentService
	users    UserService
}

func NewHandler(requests RequestService, events EventService, catalog CatalogService, comments CommentService, users UserService) *Handler {
	return &Handler{
		requests: requests,
		events:   events,
		catalog:  catalog,
		comments: comments,
		users:    users,
	}
}

package domain

const (
	RoutingRequestCreated   = "request.created"
	RoutingRequestCanceled  = "request.canceled"
	RoutingRequestModerated = "request.moderated"
	RoutingEventPublished   = "event.published"
)

// OutboxMessage is written in the same transaction as the change it announces.
type OutboxMessage struct {
	RoutingKey string
	TraceID    string
	Payload    any
}

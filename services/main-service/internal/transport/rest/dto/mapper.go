package dto

import "github.com/baechuer/explore-with-me/services/main-service/internal/domain"

func ToUserDto(u *domain.User) UserDto {
	return UserDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToUserDtos(in []domain.User) []UserDto {
	out := make([]UserDto, 0, len(in))
	for i := range in {
		out = append(out, ToUserDto(&in[i]))
	}
	return out
}

func toUserShort(u domain.UserShort) UserShortDto {
	return UserShortDto{ID: u.ID, Name: u.Name}
}

func ToCategoryDto(c *domain.Category) CategoryDto {
	return CategoryDto{ID: c.ID, Name: c.Name}
}

func ToCategoryDtos(in []domain.Category) []CategoryDto {
	out := make([]CategoryDto, 0, len(in))
	for i := range in {
		out = append(out, ToCategoryDto(&in[i]))
	}
	return out
}

func ToEventFullDto(e *domain.Event) EventFullDto {
	return EventFullDto{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		Category:          ToCategoryDto(&e.Category),
		Initiator:         toUserShort(e.Initiator),
		Location:          LocationDto{Lat: e.Location.Lat, Lon: e.Location.Lon},
		EventDate:         NewDateTime(e.EventDate),
		CreatedOn:         NewDateTime(e.CreatedOn),
		PublishedOn:       NewDateTimePtr(e.PublishedOn),
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             string(e.State),
		ConfirmedRequests: e.ConfirmedRequests,
		Views:             e.Views,
	}
}

func ToEventFullDtos(in []*domain.Event) []EventFullDto {
	out := make([]EventFullDto, 0, len(in))
	for _, e := range in {
		out = append(out, ToEventFullDto(e))
	}
	return out
}

func ToEventShortDto(e *domain.Event) EventShortDto {
	return EventShortDto{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Category:          ToCategoryDto(&e.Category),
		Initiator:         toUserShort(e.Initiator),
		EventDate:         NewDateTime(e.EventDate),
		Paid:              e.Paid,
		ConfirmedRequests: e.ConfirmedRequests,
		Views:             e.Views,
	}
}

func ToEventShortDtos(in []*domain.Event) []EventShortDto {
	out := make([]EventShortDto, 0, len(in))
	for _, e := range in {
		out = append(out, ToEventShortDto(e))
	}
	return out
}

func ToRequestDto(r *domain.ParticipationRequest) ParticipationRequestDto {
	return ParticipationRequestDto{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    string(r.Status),
		Created:   NewDateTime(r.Created),
	}
}

func ToRequestDtos(in []domain.ParticipationRequest) []ParticipationRequestDto {
	out := make([]ParticipationRequestDto, 0, len(in))
	for i := range in {
		out = append(out, ToRequestDto(&in[i]))
	}
	return out
}

func ToModerationResult(res domain.ModerationResult) EventRequestStatusUpdateResult {
	return EventRequestStatusUpdateResult{
		ConfirmedRequests: ToRequestDtos(res.Confirmed),
		RejectedRequests:  ToRequestDtos(res.Rejected),
	}
}

func ToCompilationDto(c *domain.Compilation) CompilationDto {
	return CompilationDto{
		ID:     c.ID,
		Title:  c.Title,
		Pinned: c.Pinned,
		Events: ToEventShortDtos(c.Events),
	}
}

func ToCompilationDtos(in []*domain.Compilation) []CompilationDto {
	out := make([]CompilationDto, 0, len(in))
	for _, c := range in {
		out = append(out, ToCompilationDto(c))
	}
	return out
}

func ToCommentDto(c *domain.Comment) CommentDto {
	return CommentDto{
		ID:        c.ID,
		EventID:   c.EventID,
		Author:    toUserShort(c.Author),
		Text:      c.Text,
		CreatedOn: NewDateTime(c.CreatedOn),
		UpdatedOn: NewDateTimePtr(c.UpdatedOn),
	}
}

func ToCommentDtos(in []domain.Comment) []CommentDto {
	out := make([]CommentDto, 0, len(in))
	for i := range in {
		out = append(out, ToCommentDto(&in[i]))
	}
	return out
}

func ToCapacityAuditDto(a domain.CapacityAudit) CapacityAuditDto {
	return CapacityAuditDto{
		EventID:           a.EventID,
		ConfirmedRequests: a.Counter,
		ConfirmedCount:    a.Confirmed,
		Drift:             a.Drift(),
		Consistent:        a.Consistent(),
		Repaired:          a.Repaired,
	}
}

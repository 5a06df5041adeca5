package dto

type UserDto struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserShortDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type EventFullDto struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Annotation        string       `json:"annotation"`
	Description       string       `json:"description"`
	Category          CategoryDto  `json:"category"`
	Initiator         UserShortDto `json:"initiator"`
	Location          LocationDto  `json:"location"`
	EventDate         DateTime     `json:"eventDate"`
	CreatedOn         DateTime     `json:"createdOn"`
	PublishedOn       *DateTime    `json:"publishedOn"`
	Paid              bool         `json:"paid"`
	ParticipantLimit  int          `json:"participantLimit"`
	RequestModeration bool         `json:"requestModeration"`
	State             string       `json:"state"`
	ConfirmedRequests int          `json:"confirmedRequests"`
	Views             int64        `json:"views"`
}

type EventShortDto struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Annotation        string       `json:"annotation"`
	Category          CategoryDto  `json:"category"`
	Initiator         UserShortDto `json:"initiator"`
	EventDate         DateTime     `json:"eventDate"`
	Paid              bool         `json:"paid"`
	ConfirmedRequests int          `json:"confirmedRequests"`
	Views             int64        `json:"views"`
}

type ParticipationRequestDto struct {
	ID        int64    `json:"id"`
	Event     int64    `json:"event"`
	Requester int64    `json:"requester"`
	Status    string   `json:"status"`
	Created   DateTime `json:"created"`
}

type EventRequestStatusUpdateResult struct {
	ConfirmedRequests []ParticipationRequestDto `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequestDto `json:"rejectedRequests"`
}

type CompilationDto struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Pinned bool            `json:"pinned"`
	Events []EventShortDto `json:"events"`
}

type CommentDto struct {
	ID        int64        `json:"id"`
	EventID   int64        `json:"eventId"`
	Author    UserShortDto `json:"author"`
	Text      string       `json:"text"`
	CreatedOn DateTime     `json:"createdOn"`
	UpdatedOn *DateTime    `json:"updatedOn,omitempty"`
}

type CapacityAuditDto struct {
	EventID           int64 `json:"eventId"`
	ConfirmedRequests int   `json:"confirmedRequests"`
	ConfirmedCount    int   `json:"confirmedCount"`
	Drift             int   `json:"drift"`
	Consistent        bool  `json:"consistent"`
	Repaired          bool  `json:"repaired"`
}

package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/dto"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

// CreateRequest handles POST /users/{userId}/requests?eventId=.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	eventID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("eventId")), 10, 64)
	if err != nil || eventID <= 0 {
		response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
			"eventId": "required, must be a positive integer",
		}))
		return
	}

	req, err := h.requests.Create(r.Context(), userID, eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToRequestDto(req))
}

func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out, err := h.requests.ListMine(r.Context(), userID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToRequestDtos(out))
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	req, err := h.requests.Cancel(r.Context(), userID, requestID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToRequestDto(req))
}

// ListEventRequests handles GET /users/{userId}/events/{eventId}/requests.
func (h *Handler) ListEventRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	out, err := h.requests.ListForEvent(r.Context(), userID, eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToRequestDtos(out))
}

// ModerateRequests handles PATCH /users/{userId}/events/{eventId}/requests.
func (h *Handler) ModerateRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var body dto.EventRequestStatusUpdateRequest
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}

	res, err := h.requests.Moderate(r.Context(), userID, eventID, body.RequestIDs, body.Status)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToModerationResult(res))
}

func (h *Handler) AuditCapacity(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	a, err := h.requests.Audit(r.Context(), eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCapacityAuditDto(a))
}

func (h *Handler) ReconcileCapacity(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	a, err := h.requests.Reconcile(r.Context(), eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCapacityAuditDto(a))
}

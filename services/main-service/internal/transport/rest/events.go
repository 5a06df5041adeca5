package rest

import (
	"net/http"

	eventapp "github.com/baechuer/explore-with-me/services/main-service/internal/application/event"
	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/dto"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

func visit(r *http.Request) eventapp.Visit {
	return eventapp.Visit{URI: r.URL.Path, IP: clientIP(r)}
}

// Initiator

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var body dto.NewEventDto
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.events.Create(r.Context(), userID, body.ToInput())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToEventFullDto(ev))
}

func (h *Handler) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	page, err := pageParams(r.URL.Query())
	if err != nil {
		response.Err(w, r, err)
		return
	}

	out, err := h.events.ListForInitiator(r.Context(), userID, page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventShortDtos(out))
}

func (h *Handler) GetMyEvent(w http.ResponseWriter, r *http.Request) {
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

	ev, err := h.events.GetForInitiator(r.Context(), userID, eventID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventFullDto(ev))
}

func (h *Handler) UpdateMyEvent(w http.ResponseWriter, r *http.Request) {
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
	var body dto.UpdateEventRequest
	if err := decodeBody(r, &body, false); err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.events.UpdateByInitiator(r.Context(), userID, eventID, body.ToPatch())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventFullDto(ev))
}

// Admin

func (h *Handler) SearchEventsAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := pageParams(q)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var f eventapp.AdminFilter
	if f.Users, err = idsParam(q, "users"); err != nil {
		response.Err(w, r, err)
		return
	}
	if f.Categories, err = idsParam(q, "categories"); err != nil {
		response.Err(w, r, err)
		return
	}
	for _, s := range listParam(q, "states") {
		st, err := domain.ParseEventState(s)
		if err != nil {
			response.Err(w, r, err)
			return
		}
		f.States = append(f.States, st)
	}
	if f.RangeStart, err = timeParam(q, "rangeStart"); err != nil {
		response.Err(w, r, err)
		return
	}
	if f.RangeEnd, err = timeParam(q, "rangeEnd"); err != nil {
		response.Err(w, r, err)
		return
	}

	out, err := h.events.SearchAdmin(r.Context(), f, page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventFullDtos(out))
}

func (h *Handler) UpdateEventAdmin(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var body dto.UpdateEventRequest
	if err := decodeBody(r, &body, false); err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.events.UpdateByAdmin(r.Context(), eventID, body.ToPatch())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventFullDto(ev))
}

// Public

func (h *Handler) SearchEventsPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := pageParams(q)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	f := eventapp.PublicFilter{Text: q.Get("text")}
	if f.Categories, err = idsParam(q, "categories"); err != nil {
		response.Err(w, r, err)
		return
	}
	if f.Paid, err = boolParam(q, "paid"); err != nil {
		response.Err(w, r, err)
		return
	}
	if f.RangeStart, err = timeParam(q, "rangeStart"); err != nil {
		response.Err(w, r, err)
		return
	}
	if f.RangeEnd, err = timeParam(q, "rangeEnd"); err != nil {
		response.Err(w, r, err)
		return
	}
	onlyAvailable, err := boolParam(q, "onlyAvailable")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	f.OnlyAvailable = onlyAvailable != nil && *onlyAvailable
	if f.Sort, err = eventapp.ParseSort(q.Get("sort")); err != nil {
		response.Err(w, r, err)
		return
	}

	out, err := h.events.SearchPublic(r.Context(), f, page, visit(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventShortDtos(out))
}

func (h *Handler) GetEventPublic(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	ev, err := h.events.GetPublic(r.Context(), eventID, visit(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToEventFullDto(ev))
}

package rest

import (
	"net/http"

	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/dto"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
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
	var body dto.NewCommentDto
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}

	c, err := h.comments.Create(r.Context(), userID, eventID, body.Text)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToCommentDto(c))
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var body dto.NewCommentDto
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}

	c, err := h.comments.Edit(r.Context(), userID, commentID, body.Text)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCommentDto(c))
}

func (h *Handler) DeleteOwnComment(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.comments.DeleteOwn(r.Context(), userID, commentID); err != nil {
		response.Err(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) DeleteCommentAdmin(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "commentId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.comments.DeleteByAdmin(r.Context(), commentID); err != nil {
		response.Err(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) ListEventComments(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathID(r, "eventId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	page, err := pageParams(r.URL.Query())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out, err := h.comments.ListForEvent(r.Context(), eventID, page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCommentDtos(out))
}

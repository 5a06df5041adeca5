package rest

import (
	"net/http"

	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/dto"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var body dto.NewUserRequest
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}
	u, err := h.users.Register(r.Context(), body.Name, body.Email)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToUserDto(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := pageParams(q)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	ids, err := idsParam(q, "ids")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out, err := h.users.List(r.Context(), ids, page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToUserDtos(out))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.NoContent(w)
}

package rest

import (
	"net/http"

	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/dto"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

// Categories

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body dto.NewCategoryDto
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}
	c, err := h.catalog.CreateCategory(r.Context(), body.Name)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToCategoryDto(c))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "catId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var body dto.NewCategoryDto
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}
	c, err := h.catalog.UpdateCategory(r.Context(), id, body.Name)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCategoryDto(c))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "catId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "catId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	c, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCategoryDto(c))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r.URL.Query())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out, err := h.catalog.ListCategories(r.Context(), page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCategoryDtos(out))
}

// Compilations

func (h *Handler) CreateCompilation(w http.ResponseWriter, r *http.Request) {
	var body dto.NewCompilationDto
	if err := decodeBody(r, &body, true); err != nil {
		response.Err(w, r, err)
		return
	}
	c, err := h.catalog.CreateCompilation(r.Context(), body.Title, body.PinnedOption(), body.Events)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, dto.ToCompilationDto(c))
}

func (h *Handler) UpdateCompilation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	var body dto.UpdateCompilationRequest
	if err := decodeBody(r, &body, false); err != nil {
		response.Err(w, r, err)
		return
	}
	c, err := h.catalog.UpdateCompilation(r.Context(), id, body.ToPatch())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCompilationDto(c))
}

func (h *Handler) DeleteCompilation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if err := h.catalog.DeleteCompilation(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) GetCompilation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "compId")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	c, err := h.catalog.GetCompilation(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCompilationDto(c))
}

func (h *Handler) ListCompilations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := pageParams(q)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	pinned, err := boolParam(q, "pinned")
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out, err := h.catalog.ListCompilations(r.Context(), pinned, page)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, dto.ToCompilationDtos(out))
}

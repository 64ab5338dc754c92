package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"maison-be/internal/category"
	"maison-be/internal/utils"
)

type CategoryHandler struct {
	svc category.Service
}

func NewCategoryHandler(svc category.Service) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter *string
	if f := q.Get("filter"); f != "" {
		filter = &f
	}
	var limit, page *int32
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		l := int32(v)
		limit = &l
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		p := int32(v)
		page = &p
	}

	categories, err := h.svc.GetCategories(r.Context(), filter, limit, page)
	if err != nil {
		utils.WriteJSONError(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.svc.AddCategory(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, category.ErrEmptyName) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "failed to create category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.RenameCategory(r.Context(), r.PathValue("id"), req.Name); err != nil {
		switch {
		case errors.Is(err, category.ErrEmptyName):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, category.ErrCategoryNotFound):
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		default:
			utils.WriteJSONError(w, "failed to rename category", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"renamed": true})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "failed to delete category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

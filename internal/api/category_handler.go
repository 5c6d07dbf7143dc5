package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/service"
)

// CategoryHandler serves the /categories routes.
type CategoryHandler struct {
	categories service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories service.CategoryService, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CategoryHandler")
	}
	return &CategoryHandler{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_handler")),
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryToResponse(c))
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Categories fetched successfully", resp)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Category fetched successfully", categoryToResponse(category))
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.categories.Create(r.Context(), caller, service.CategoryInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusCreated, "Category created successfully", categoryToResponse(category))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.categories.Update(r.Context(), caller, chi.URLParam(r, "id"), service.CategoryInput(req))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Category updated successfully", categoryToResponse(category))
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := h.categories.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

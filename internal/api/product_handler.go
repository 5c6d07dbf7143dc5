package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/service"
)

// ProductHandler serves the /products routes.
type ProductHandler struct {
	products service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products service.ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProductHandler")
	}
	return &ProductHandler{
		products: products,
		logger:   logger.With(slog.String("component", "product_handler")),
	}
}

// List handles GET /products. With ?sellerId= it lists that seller's
// products and an empty result is a 200; without it, no products is a 404.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	sellerID := strings.TrimSpace(r.URL.Query().Get("sellerId"))

	var (
		products []*domain.Product
		err      error
	)
	if sellerID != "" {
		products, err = h.products.ListBySeller(r.Context(), sellerID)
	} else {
		products, err = h.products.List(r.Context())
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithSuccess(w, r, http.StatusOK, "Products fetched successfully", productsToResponse(products))
}

// Get handles GET /products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Product fetched successfully", productToResponse(product))
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.products.Create(r.Context(), caller, service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("product created",
		slog.String("product_id", product.ID),
		slog.String("seller_id", product.OwnerID))
	shared.RespondWithSuccess(w, r, http.StatusCreated, "Product created successfully", productToResponse(product))
}

// Update handles PUT /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product, err := h.products.Update(r.Context(), caller, chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Product updated successfully", productToResponse(product))
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.products.Delete(r.Context(), caller, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("product deleted", slog.String("product_id", id))
	shared.RespondWithSuccess(w, r, http.StatusOK, "Product deleted successfully", nil)
}

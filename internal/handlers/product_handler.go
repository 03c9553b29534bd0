package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/Lixing-Zhang/eshopper/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProductHandler serves the catalog as JSON
type ProductHandler struct {
	products service.ProductSource
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductSource, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

type productsResponse struct {
	Products []models.Product `json:"products"`
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		status, msg := catalogErrorStatus(err)
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, status, msg, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, productsResponse{Products: products}, h.logger)
}

// GetProduct handles GET /api/products/{productId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: Product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	id, err := parseProductID(productID)
	if err != nil {
		h.logger.Warn("invalid product ID format", "productId", productID)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		status, msg := catalogErrorStatus(err)
		if status == http.StatusNotFound {
			h.logger.Info("product not found", "productId", id)
		} else {
			h.logger.Error("failed to get product", "productId", id, "error", err)
		}
		WriteError(w, status, msg, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

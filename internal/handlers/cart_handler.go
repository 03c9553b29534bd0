package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/Lixing-Zhang/eshopper/internal/service"
	"github.com/go-chi/chi/v5"
)

// CartHandler exposes the cart as a JSON API
type CartHandler struct {
	cart *service.CartService
	log  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{
		cart: cart,
		log:  log,
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.cart.Summary(), h.log)
}

// AddItem handles POST /api/cart/items
// An omitted quantity adds one unit
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode add item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if req.ProductID <= 0 {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}
	if req.Quantity < 0 || req.Quantity > models.MaxQuantity {
		WriteError(w, http.StatusBadRequest, quantityRangeMessage, h.log)
		return
	}

	line, err := h.cart.AddProduct(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		status, msg := catalogErrorStatus(err)
		if status != http.StatusBadRequest {
			h.log.Error("failed to add item to cart", "productId", req.ProductID, "error", err)
		}
		WriteError(w, status, msg, h.log)
		return
	}

	h.log.Info("item added to cart", "productId", line.ID, "quantity", line.Quantity)
	WriteJSON(w, http.StatusOK, h.cart.Summary(), h.log)
}

// UpdateItem handles PUT /api/cart/items/{productId}
// A quantity of zero or less removes the line
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "productId"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	var req models.UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode update quantity request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		status, msg := catalogErrorStatus(err)
		if status != http.StatusBadRequest {
			h.log.Error("failed to update cart quantity", "productId", id, "error", err)
		}
		WriteError(w, status, msg, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, h.cart.Summary(), h.log)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
// Removing an id that is not in the cart still succeeds
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "productId"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	if err := h.cart.Remove(r.Context(), id); err != nil {
		h.log.Error("failed to remove cart item", "productId", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

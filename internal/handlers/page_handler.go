package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/Lixing-Zhang/eshopper/internal/service"
	"github.com/Lixing-Zhang/eshopper/internal/views"
	"github.com/go-chi/chi/v5"
)

// PageHandler renders the storefront HTML pages and handles their form posts
type PageHandler struct {
	products service.ProductSource
	cart     *service.CartService
	checkout *service.CheckoutService
	renderer *views.Renderer
	log      *slog.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	products service.ProductSource,
	cart *service.CartService,
	checkout *service.CheckoutService,
	renderer *views.Renderer,
	log *slog.Logger,
) *PageHandler {
	return &PageHandler{
		products: products,
		cart:     cart,
		checkout: checkout,
		renderer: renderer,
		log:      log,
	}
}

func (h *PageHandler) nav(r *http.Request) views.Nav {
	return views.Nav{
		ActivePath: r.URL.Path,
		CartCount:  h.cart.ItemsCount(),
	}
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, page, data); err != nil {
		h.log.Error("failed to render page", "page", page, "error", err)
	}
}

func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.render(w, status, views.PageError, views.ErrorPage{
		Nav:     h.nav(r),
		Title:   title,
		Message: message,
	})
}

// ProductList handles GET / and GET /products
func (h *PageHandler) ProductList(w http.ResponseWriter, r *http.Request) {
	page := views.ProductsPage{Nav: h.nav(r)}

	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		status, msg := catalogErrorStatus(err)
		h.log.Error("failed to list products", "error", err)
		page.Error = msg
		h.render(w, status, views.PageProducts, page)
		return
	}

	page.Products = products
	h.render(w, http.StatusOK, views.PageProducts, page)
}

// ProductDetail handles GET /products/{productId}
// Query parameters: image selects the carousel position, quantity the stepper value
func (h *PageHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "productId"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid product", "Invalid ID supplied")
		return
	}

	page := views.ProductPage{Nav: h.nav(r)}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		status, msg := catalogErrorStatus(err)
		if status != http.StatusNotFound {
			h.log.Error("failed to get product", "productId", id, "error", err)
		}
		page.Error = msg
		h.render(w, status, views.PageProduct, page)
		return
	}

	index, _ := strconv.Atoi(r.URL.Query().Get("image"))
	page.Product = product
	page.Carousel = views.NewCarousel(product.Images, index)
	page.Quantity = views.ClampQuantity(views.ParseQuantity(r.URL.Query().Get("quantity"), 1))

	h.render(w, http.StatusOK, views.PageProduct, page)
}

// Cart handles GET /cart
func (h *PageHandler) Cart(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, views.PageCart, views.CartPage{
		Nav:     h.nav(r),
		Summary: h.cart.Summary(),
	})
}

// AddToCart handles POST /cart/add and redirects back to the page named in
// the "return" field
func (h *PageHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r.FormValue("product_id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid product", "Invalid ID supplied")
		return
	}
	quantity := views.ParseQuantity(r.FormValue("quantity"), 1)

	if _, err := h.cart.AddProduct(r.Context(), id, quantity); err != nil {
		status, msg := catalogErrorStatus(err)
		if status != http.StatusBadRequest {
			h.log.Error("failed to add item to cart", "productId", id, "error", err)
		}
		h.renderError(w, r, status, "Could not add to cart", msg)
		return
	}

	http.Redirect(w, r, safeReturnPath(r.FormValue("return"), "/cart"), http.StatusSeeOther)
}

// UpdateCart handles POST /cart/update. The form carries either a "delta"
// from the -/+ buttons or a typed "quantity"; a typed value that is not a
// number, or is zero, counts as 1.
func (h *PageHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r.FormValue("product_id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid product", "Invalid ID supplied")
		return
	}

	var quantity int
	if delta, err := strconv.Atoi(r.FormValue("delta")); err == nil {
		if delta < -models.MaxQuantity || delta > models.MaxQuantity {
			h.renderError(w, r, http.StatusBadRequest, "Could not update cart", quantityRangeMessage)
			return
		}
		line, ok := h.cart.Line(id)
		if !ok {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		quantity = line.Quantity + delta
	} else {
		quantity, err = strconv.Atoi(r.FormValue("quantity"))
		if err != nil || quantity == 0 {
			quantity = 1
		}
	}

	if err := h.cart.UpdateQuantity(r.Context(), id, quantity); err != nil {
		status, msg := catalogErrorStatus(err)
		if status != http.StatusBadRequest {
			h.log.Error("failed to update cart quantity", "productId", id, "error", err)
		}
		h.renderError(w, r, status, "Could not update cart", msg)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveFromCart handles POST /cart/remove
func (h *PageHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r.FormValue("product_id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid product", "Invalid ID supplied")
		return
	}

	if err := h.cart.Remove(r.Context(), id); err != nil {
		h.log.Error("failed to remove cart item", "productId", id, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "Could not update cart", "Internal server error")
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout handles POST /checkout
func (h *PageHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	page := views.CheckoutPage{Nav: h.nav(r)}

	order, err := h.checkout.Checkout(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		page.Error = "Internal server error"
		if errors.Is(err, service.ErrEmptyCart) {
			status = http.StatusBadRequest
			page.Error = "Your cart is empty"
		} else {
			h.log.Error("failed to check out", "error", err)
		}
		h.render(w, status, views.PageCheckout, page)
		return
	}

	h.log.Info("order summary created", "order_id", order.ID, "items_count", order.ItemsCount)
	page.Order = order
	h.render(w, http.StatusOK, views.PageCheckout, page)
}

// NotFound renders the 404 page for unknown routes
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

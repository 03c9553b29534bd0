package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/eshopper/internal/config"
	"github.com/Lixing-Zhang/eshopper/internal/handlers"
	"github.com/Lixing-Zhang/eshopper/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type routeHandlers struct {
	health   *handlers.HealthHandler
	pages    *handlers.PageHandler
	products *handlers.ProductHandler
	cart     *handlers.CartHandler
	checkout *handlers.CheckoutHandler
}

func newRouter(h routeHandlers, auth config.AuthConfig, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", h.health.ServeHTTP)

	// Storefront pages
	r.Get("/", h.pages.ProductList)
	r.Get("/products", h.pages.ProductList)
	r.Get("/products/{productId}", h.pages.ProductDetail)
	r.Get("/cart", h.pages.Cart)
	r.Post("/cart/add", h.pages.AddToCart)
	r.Post("/cart/update", h.pages.UpdateCart)
	r.Post("/cart/remove", h.pages.RemoveFromCart)
	r.Post("/checkout", h.pages.Checkout)
	r.NotFound(h.pages.NotFound)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "api_key"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/products", h.products.ListProducts)
		r.Get("/products/{productId}", h.products.GetProduct)
		r.Get("/cart", h.cart.GetCart)

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(auth))
			r.Post("/cart/items", h.cart.AddItem)
			r.Put("/cart/items/{productId}", h.cart.UpdateItem)
			r.Delete("/cart/items/{productId}", h.cart.RemoveItem)
			r.Post("/checkout", h.checkout.Checkout)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			handlers.WriteError(w, http.StatusNotFound, "Not found", log)
		})
	})

	return r
}

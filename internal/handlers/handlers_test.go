package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Lixing-Zhang/eshopper/internal/cart"
	"github.com/Lixing-Zhang/eshopper/internal/catalog"
	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/Lixing-Zhang/eshopper/internal/service"
	"github.com/Lixing-Zhang/eshopper/internal/views"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves fixed products, or err for every call when set
type fakeCatalog struct {
	products []models.Product
	err      error
}

func (f *fakeCatalog) ListProducts(context.Context) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProducts() []models.Product {
	return []models.Product{
		{
			ID: 1, Title: "Essence Mascara", Brand: "Essence", Category: "beauty",
			Price: decimal.NewFromInt(100), DiscountPercentage: decimal.NewFromInt(20),
			Stock: 5, Thumbnail: "1-thumb.png", Images: []string{"1a.png", "1b.png", "1c.png"},
		},
		{
			ID: 2, Title: "Powder Canister", Brand: "Glamour", Category: "beauty",
			Price: decimal.RequireFromString("14.99"), Stock: 89,
			Thumbnail: "2-thumb.png", Images: []string{"2a.png"},
		},
	}
}

type testEnv struct {
	catalog  *fakeCatalog
	store    *cart.Store
	cart     *service.CartService
	checkout *service.CheckoutService
	renderer *views.Renderer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fc := &fakeCatalog{products: testProducts()}
	store := cart.NewStore(context.Background(), cart.NewMemoryStorage(), testLogger())
	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	return &testEnv{
		catalog:  fc,
		store:    store,
		cart:     service.NewCartService(fc, store),
		checkout: service.NewCheckoutService(store),
		renderer: renderer,
	}
}

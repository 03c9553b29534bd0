package service

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/eshopper/internal/cart"
	"github.com/Lixing-Zhang/eshopper/internal/models"
)

// ProductSource is the read side of the remote catalog
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// CartService resolves product ids against the catalog before they reach the
// cart store, so the store always holds full product records
type CartService struct {
	products ProductSource
	store    *cart.Store
}

// NewCartService creates a new cart service
func NewCartService(products ProductSource, store *cart.Store) *CartService {
	return &CartService{
		products: products,
		store:    store,
	}
}

// AddProduct fetches the product and adds quantity units of it to the cart
func (s *CartService) AddProduct(ctx context.Context, productID int64, quantity int) (models.CartLine, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return models.CartLine{}, fmt.Errorf("get product %d: %w", productID, err)
	}

	return s.store.Add(ctx, *product, quantity)
}

// UpdateQuantity sets a line's quantity; zero or less removes it
func (s *CartService) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return s.store.UpdateQuantity(ctx, productID, quantity)
}

// Remove deletes a line; absent ids are not an error
func (s *CartService) Remove(ctx context.Context, productID int64) error {
	return s.store.Remove(ctx, productID)
}

// Line returns the cart line for productID, if present
func (s *CartService) Line(productID int64) (models.CartLine, bool) {
	return s.store.Line(productID)
}

// Summary returns the cart lines with item count and total
func (s *CartService) Summary() models.CartSummary {
	return s.store.Summary()
}

// ItemsCount feeds the navigation badge
func (s *CartService) ItemsCount() int {
	return s.store.ItemsCount()
}

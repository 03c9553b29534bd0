package service

import (
	"context"
	"errors"
	"time"

	"github.com/Lixing-Zhang/eshopper/internal/models"
	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

// CartReader is the part of the cart the checkout needs
type CartReader interface {
	Summary() models.CartSummary
}

// CheckoutService prices the cart into an order summary.
// The cart is left untouched; payment and fulfilment are not handled here.
type CheckoutService struct {
	cart CartReader
	now  func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(cart CartReader) *CheckoutService {
	return &CheckoutService{
		cart: cart,
		now:  time.Now,
	}
}

// Checkout snapshots the current cart into an Order
func (s *CheckoutService) Checkout(ctx context.Context) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := s.cart.Summary()
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:         generateOrderID(),
		Lines:      summary.Lines,
		ItemsCount: summary.ItemsCount,
		Total:      summary.Total,
		CreatedAt:  s.now().UTC(),
	}

	return order, nil
}

// generateOrderID generates a unique order ID using UUID
func generateOrderID() string {
	return uuid.New().String()
}

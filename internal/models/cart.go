package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity out of range")

// MaxQuantity is the largest quantity a single cart line may hold
const MaxQuantity = 9999

// CartLine is a product in the cart together with its quantity
// The embedded product fields are flattened in JSON, matching the stored cart format
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Validate checks the product fields and that quantity is within 1..MaxQuantity
func (l CartLine) Validate() error {
	if err := l.Product.Validate(); err != nil {
		return err
	}
	if l.Quantity < 1 || l.Quantity > MaxQuantity {
		return fmt.Errorf("%w: product %d has quantity %d", ErrInvalidQuantity, l.ID, l.Quantity)
	}
	return nil
}

// UnitPrice is the discounted price of a single unit
func (l CartLine) UnitPrice() decimal.Decimal {
	return l.DiscountedPrice()
}

// Subtotal is the discounted price multiplied by quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSummary is the JSON representation of the cart
type CartSummary struct {
	Lines      []CartLine      `json:"lines"`
	ItemsCount int             `json:"itemsCount"`
	LineCount  int             `json:"lineCount"`
	Total      decimal.Decimal `json:"total"`
}

// AddItemRequest is the body of POST /api/cart/items
type AddItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest is the body of PUT /api/cart/items/{productId}
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

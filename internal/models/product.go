package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

var hundred = decimal.NewFromInt(100)

// Product represents a catalog item served by the remote product API
// Records are read-only; the storefront never mutates them
type Product struct {
	ID                 int64           `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Brand              string          `json:"brand,omitempty"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	Rating             float64         `json:"rating"`
	Stock              int             `json:"stock"`
	Thumbnail          string          `json:"thumbnail"`
	Images             []string        `json:"images"`
}

// Validate checks the field ranges of a product decoded from an untrusted source
func (p Product) Validate() error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidProduct, p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: product %d has negative price", ErrInvalidProduct, p.ID)
	case p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(hundred):
		return fmt.Errorf("%w: product %d discount %s out of range", ErrInvalidProduct, p.ID, p.DiscountPercentage)
	case p.Stock < 0:
		return fmt.Errorf("%w: product %d has negative stock", ErrInvalidProduct, p.ID)
	}
	return nil
}

// DiscountedPrice returns price * (1 - discountPercentage/100), unrounded
func (p Product) DiscountedPrice() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(1).Sub(p.DiscountPercentage.Div(hundred)))
}

// HasDiscount reports whether the product is sold below its list price
func (p Product) HasDiscount() bool {
	return p.DiscountPercentage.IsPositive()
}

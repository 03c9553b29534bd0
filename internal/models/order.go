package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a priced snapshot of the cart taken at checkout
type Order struct {
	ID         string          `json:"id"`
	Lines      []CartLine      `json:"lines"`
	ItemsCount int             `json:"itemsCount"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
}

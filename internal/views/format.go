package views

import "github.com/shopspring/decimal"

// FormatPrice renders an amount as dollars with two decimals
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

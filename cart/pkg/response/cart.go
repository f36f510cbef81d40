package response

import (
	"github.com/shopspring/decimal"

	"github.com/houseofabhilasha/storefront/cart/internal/store"
)

type Cart struct {
	Lines      []store.Line    `json:"lines"`
	TotalItems int32           `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// NewCart recomputes the totals from the lines so the response never trusts
// a previously stored aggregate.
func NewCart(lines []store.Line) Cart {
	if lines == nil {
		lines = []store.Line{}
	}
	totalItems := int32(0)
	totalPrice := decimal.Zero
	for _, line := range lines {
		totalItems += line.Quantity
		totalPrice = totalPrice.Add(
			line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)),
		)
	}
	return Cart{Lines: lines, TotalItems: totalItems, TotalPrice: totalPrice}
}

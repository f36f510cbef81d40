package store

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is the wire shape of a cart line as the storefront client keeps it.
// Guest lines carry client-generated "guest_" prefixed ids, server lines the
// row uuid.
type Line struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int32           `json:"quantity"`
}

// GuestStore holds anonymous carts keyed by guest cart id.
type GuestStore interface {
	Load(c context.Context, guestId string) ([]Line, error)
	Save(c context.Context, guestId string, lines []Line) error
	Clear(c context.Context, guestId string) error
}

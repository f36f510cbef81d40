package request

import "github.com/shopspring/decimal"

type AddItem struct {
	ProductID    string          `json:"productId"    validate:"required"`
	ProductName  string          `json:"productName"  validate:"required"`
	ProductImage string          `json:"productImage"`
	UnitPrice    decimal.Decimal `json:"unitPrice"    validate:"required"`
	Quantity     int32           `json:"quantity"     validate:"required,min=1"`
}

type UpdateQuantity struct {
	Quantity int32 `json:"quantity"`
}

type MergeCart struct {
	GuestCartID string `json:"guestCartId" validate:"required"`
}

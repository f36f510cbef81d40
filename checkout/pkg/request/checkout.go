package request

import "github.com/shopspring/decimal"

type GuestCheckoutItem struct {
	ProductID    string          `json:"productId"    validate:"required"`
	ProductName  string          `json:"productName"  validate:"required"`
	ProductImage string          `json:"productImage"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int32           `json:"quantity"     validate:"required,min=1"`
}

type GuestCheckout struct {
	Email         string              `json:"email"         validate:"required,email"`
	FirstName     string              `json:"firstName"     validate:"required"`
	LastName      string              `json:"lastName"      validate:"required"`
	Address       string              `json:"address"       validate:"required"`
	ContactNo     string              `json:"contactNo"     validate:"required"`
	PaymentMethod string              `json:"paymentMethod" validate:"required"`
	Notes         string              `json:"notes"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Items         []GuestCheckoutItem `json:"items"         validate:"required,min=1,dive"`
}

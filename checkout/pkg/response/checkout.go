package response

import "github.com/google/uuid"

type GuestCheckout struct {
	OrderID      uuid.UUID `json:"orderId"`
	IsNewAccount bool      `json:"isNewAccount"`
	TempPassword string    `json:"tempPassword,omitempty"`
}

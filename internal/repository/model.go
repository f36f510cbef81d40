package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID             uuid.UUID
	Email          string
	Password       string
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Profile struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Address   string
	ContactNo string
	UpdatedAt time.Time
}

type CartLine struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int32
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          string
	PaymentMethod   string
	TotalAmount     decimal.Decimal
	ShippingAddress string
	ContactNo       string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    string
	ProductName  string
	ProductImage string
	ProductPrice decimal.Decimal
	Quantity     int32
}

package request

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	valid := AddItem{
		ProductID:   "sku-1",
		ProductName: "Block print dupatta",
		UnitPrice:   decimal.RequireFromString("74.75"),
		Quantity:    2,
	}
	require.NoError(t, validate.Struct(valid))

	t.Run("missing unit price", func(t *testing.T) {
		item := valid
		item.UnitPrice = decimal.Decimal{}
		assert.Error(t, validate.Struct(item))
	})

	t.Run("missing product id", func(t *testing.T) {
		item := valid
		item.ProductID = ""
		assert.Error(t, validate.Struct(item))
	})

	t.Run("missing product name", func(t *testing.T) {
		item := valid
		item.ProductName = ""
		assert.Error(t, validate.Struct(item))
	})

	t.Run("quantity below one", func(t *testing.T) {
		item := valid
		item.Quantity = 0
		assert.Error(t, validate.Struct(item))
	})
}

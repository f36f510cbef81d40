package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houseofabhilasha/storefront/checkout/internal/service"
	"github.com/houseofabhilasha/storefront/internal/config"
)

func TestGuestCheckoutRejectsMissingFields(t *testing.T) {
	// nil stores: reaching the service would panic, so a clean 400 also
	// proves validation rejects the request before any mutation
	ctl := NewCheckoutController(
		service.NewCheckoutService(nil, nil, nil, nil, config.Mail{}),
		validator.New(validator.WithRequiredStructEnabled()),
	)

	testCases := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name: "missing lastName and paymentMethod",
			body: `{
				"email": "shopper@example.com",
				"firstName": "Asha",
				"address": "12 Lake View Road, Pune",
				"contactNo": "+91 98765 43210",
				"items": [{"productId": "sku-1", "productName": "Block print dupatta", "quantity": 1}]
			}`,
			wantFields: []string{"LastName", "PaymentMethod"},
		},
		{
			name:       "empty body",
			body:       `{}`,
			wantFields: []string{"Email", "FirstName", "LastName", "Address", "ContactNo", "PaymentMethod", "Items"},
		},
		{
			name: "empty strings count as missing",
			body: `{
				"email": "shopper@example.com",
				"firstName": "Asha",
				"lastName": "",
				"address": "12 Lake View Road, Pune",
				"contactNo": "+91 98765 43210",
				"paymentMethod": "",
				"items": [{"productId": "sku-1", "productName": "Block print dupatta", "quantity": 1}]
			}`,
			wantFields: []string{"LastName", "PaymentMethod"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(
				http.MethodPost,
				"/checkout/guest",
				strings.NewReader(tc.body),
			)
			rec := httptest.NewRecorder()

			ctl.GuestCheckout(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			res := struct {
				Status  string `json:"status"`
				Message string `json:"message"`
				Data    struct {
					Fields []string `json:"fields"`
				} `json:"data"`
			}{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, "failed", res.Status)
			for _, field := range tc.wantFields {
				assert.Contains(t, res.Data.Fields, field)
				assert.Contains(t, res.Message, field)
			}
		})
	}
}

package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginMarshalMasksPassword(t *testing.T) {
	reqBody := Login{Email: "shopper@example.com", Password: "hunter42"}

	marshaled, err := json.Marshal(reqBody)
	require.NoError(t, err)

	assert.NotContains(t, string(marshaled), "hunter42")
	assert.Contains(t, string(marshaled), "********")
	assert.Contains(t, string(marshaled), "shopper@example.com")
}

func TestRegisterMarshalMasksPassword(t *testing.T) {
	reqBody := Register{
		Email:     "shopper@example.com",
		Password:  "hunter42",
		FirstName: "Asha",
	}

	marshaled, err := json.Marshal(reqBody)
	require.NoError(t, err)

	assert.NotContains(t, string(marshaled), "hunter42")
	assert.Contains(t, string(marshaled), "Asha")
}

package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houseofabhilasha/storefront/internal/config"
)

func TestZohoMailerSend(t *testing.T) {
	var sentPayload map[string]string
	tokenRequests := 0

	handler := http.NewServeMux()
	handler.HandleFunc("/oauth/v2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-123", r.Form.Get("refresh_token"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "access-456"})
	})
	handler.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-oauthtoken access-456", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{"accountId": "acc-1"}},
		})
	})
	handler.HandleFunc(
		"/api/accounts/acc-1/messages",
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Zoho-oauthtoken access-456", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sentPayload))
			w.WriteHeader(http.StatusOK)
		},
	)

	server := httptest.NewServer(handler)
	defer server.Close()

	mailer := NewZohoMailer(config.Mail{
		TokenURL:     server.URL + "/oauth/v2/token",
		ApiURL:       server.URL + "/api",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-123",
		FromAddress:  "orders@example.com",
	})

	err := mailer.Send(context.Background(), Message{
		To:      "shopper@example.com",
		Subject: "Order confirmation",
		Content: "<p>thanks</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tokenRequests)
	assert.Equal(t, "orders@example.com", sentPayload["fromAddress"])
	assert.Equal(t, "shopper@example.com", sentPayload["toAddress"])
	assert.Equal(t, "Order confirmation", sentPayload["subject"])
	assert.Equal(t, "html", sentPayload["mailFormat"])
}

func TestZohoMailerSendTokenFailure(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}),
	)
	defer server.Close()

	mailer := NewZohoMailer(config.Mail{
		TokenURL: server.URL + "/oauth/v2/token",
		ApiURL:   server.URL + "/api",
	})

	err := mailer.Send(context.Background(), Message{To: "shopper@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

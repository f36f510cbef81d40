package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/houseofabhilasha/storefront/internal/config"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

// ZohoMailer sends mail through the Zoho Mail REST API using the oauth
// refresh-token flow. The access token and account id are fetched per send;
// volume is a handful of mails per checkout so no token cache is kept.
type ZohoMailer struct {
	client *http.Client
	cfg    config.Mail
}

func NewZohoMailer(cfg config.Mail) *ZohoMailer {
	return &ZohoMailer{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		cfg: cfg,
	}
}

func (m *ZohoMailer) accessToken(c context.Context) (string, error) {
	form := url.Values{}
	form.Set("refresh_token", m.cfg.RefreshToken)
	form.Set("client_id", m.cfg.ClientID)
	form.Set("client_secret", m.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		m.cfg.TokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed creating token request with error=%w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed requesting access token with error=%w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed requesting access token with status=%d", res.StatusCode)
	}

	body := struct {
		AccessToken string `json:"access_token"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed decoding token response with error=%w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access_token")
	}
	return body.AccessToken, nil
}

func (m *ZohoMailer) accountId(c context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(
		c,
		http.MethodGet,
		m.cfg.ApiURL+"/accounts",
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed creating accounts request with error=%w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)

	res, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed requesting accounts with error=%w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed requesting accounts with status=%d", res.StatusCode)
	}

	body := struct {
		Data []struct {
			AccountID string `json:"accountId"`
		} `json:"data"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed decoding accounts response with error=%w", err)
	}
	if len(body.Data) == 0 {
		return "", fmt.Errorf("accounts response contained no accounts")
	}
	return body.Data[0].AccountID, nil
}

func (m *ZohoMailer) Send(c context.Context, msg Message) error {
	c, span := inOtel.Tracer.Start(c, "ZohoMailer Send")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ZohoMailer Send").
		Str(log.KeyMailTo, msg.To).
		Str(log.KeyMailSubject, msg.Subject).
		Logger()

	logger.Info().Msg("requesting access token")
	accessToken, err := m.accessToken(c)
	if err != nil {
		err = fmt.Errorf("failed getting access token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}

	logger.Info().Msg("resolving mail account")
	accountId, err := m.accountId(c, accessToken)
	if err != nil {
		err = fmt.Errorf("failed resolving mail account with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}

	payload, err := json.Marshal(map[string]string{
		"fromAddress": m.cfg.FromAddress,
		"toAddress":   msg.To,
		"subject":     msg.Subject,
		"content":     msg.Content,
		"mailFormat":  "html",
	})
	if err != nil {
		return fmt.Errorf("failed marshaling mail payload with error=%w", err)
	}

	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		fmt.Sprintf("%s/accounts/%s/messages", m.cfg.ApiURL, accountId),
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed creating send request with error=%w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	logger.Info().Msg("sending mail")
	res, err := m.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending mail with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("failed sending mail with status=%d", res.StatusCode)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return err
	}
	logger.Info().Msg("sent mail")

	return nil
}

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/log"
)

var maskedFields = map[string]struct{}{
	"password":         {},
	"confirm_password": {},
}

func maskRequestBody(body []byte) map[string]interface{} {
	decoded := map[string]interface{}{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}
	for field := range maskedFields {
		if _, ok := decoded[field]; ok {
			decoded[field] = "********"
		}
	}
	return decoded
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := uuid.NewString()
		c := log.AttachRequestIDToContext(r.Context(), requestId)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyRequestID, requestId).
			Str(log.KeyRequestMethod, r.Method).
			Str(log.KeyRequestURI, r.RequestURI).
			Logger()
		if masked := maskRequestBody(body); masked != nil {
			logger = logger.With().Any(log.KeyRequestBody, masked).Logger()
		}
		c = logger.WithContext(c)

		startTime := time.Now()
		logger.Info().Time(log.KeyStartTime, startTime).Msg("request start")

		next.ServeHTTP(w, r.WithContext(c))

		endTime := time.Now()
		logger.Info().
			Time(log.KeyEndTime, endTime).
			Dur(log.KeyTimeTaken, endTime.Sub(startTime)).
			Msg("request end")
	})
}

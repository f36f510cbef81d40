package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	inHttp "github.com/houseofabhilasha/storefront/internal/http"
	"github.com/houseofabhilasha/storefront/internal/log"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger := zerolog.Ctx(r.Context()).
					With().
					Str(log.KeyTag, "RecoverPanic").
					Logger()
				logger.Error().Any("panic", rec).Msg("recovered from panic")

				inHttp.WriteJsonResponse(
					r.Context(),
					w,
					map[string]string{},
					map[string]interface{}{
						"status":     "failed",
						"statusCode": http.StatusInternalServerError,
						"message":    "internal server error",
					},
					http.StatusInternalServerError,
				)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

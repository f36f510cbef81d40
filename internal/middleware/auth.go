package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/common"
	"github.com/houseofabhilasha/storefront/internal/config"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	inHttp "github.com/houseofabhilasha/storefront/internal/http"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

func Auth(appName string, cfg config.Application) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := inOtel.Tracer.Start(r.Context(), "Auth")
			defer span.End()

			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyTag, "Auth").
				Logger()

			logger = logger.With().Str(log.KeyProcess, "extract authorization header").Logger()
			authorization := r.Header.Get(inHttp.HeaderKeyAuthorization)
			if authorization == "" {
				err := inErr.ErrEmptyAuth
				logger.Error().Err(err).Msg(err.Error())
				inOtel.RecordError(err, span)
				inHttp.WriteJsonResponse(
					c,
					w,
					map[string]string{},
					map[string]interface{}{
						"status":     "failed",
						"statusCode": http.StatusUnauthorized,
						"message":    err.Error(),
					},
					http.StatusUnauthorized,
				)
				return
			}
			tokenString := strings.TrimPrefix(authorization, "Bearer ")

			logger = logger.With().Str(log.KeyProcess, "verify token").Logger()
			token, err := common.VerifyJwtToken(c, tokenString, appName, cfg)
			if err != nil {
				err = fmt.Errorf("failed verifying jwt token with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				inOtel.RecordError(err, span)
				inHttp.WriteJsonResponse(
					c,
					w,
					map[string]string{},
					map[string]interface{}{
						"status":     "failed",
						"statusCode": http.StatusUnauthorized,
						"message":    inErr.ErrTokenInvalid.Error(),
					},
					http.StatusUnauthorized,
				)
				return
			}

			c = common.AttachJwtTokenToContext(c, token)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

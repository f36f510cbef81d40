package common

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/common/constants"
	"github.com/houseofabhilasha/storefront/internal/config"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
)

type jwtTokenKey struct{}

func CreateJwtToken(
	c context.Context,
	userId uuid.UUID,
	appName string,
	cfg config.Application,
) (string, error) {
	c, span := inOtel.Tracer.Start(c, "CreateJwtToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CreateJwtToken").
		Str(log.KeyUserID, userId.String()).
		Logger()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    appName,
		Subject:   userId.String(),
		Audience:  jwt.ClaimStrings{constants.AudienceStorefront},
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	logger.Info().Msg("signing jwt token")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(cfg.SecretKey))
	if err != nil {
		err = fmt.Errorf("failed signing jwt token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return "", err
	}
	logger.Info().Msg("signed jwt token")

	return token, nil
}

func VerifyJwtToken(
	c context.Context,
	tokenString string,
	appName string,
	cfg config.Application,
) (*jwt.Token, error) {
	c, span := inOtel.Tracer.Start(c, "VerifyJwtToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "VerifyJwtToken").
		Logger()

	logger.Info().Msg("verifying jwt token")
	token, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (interface{}, error) { return []byte(cfg.SecretKey), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(appName),
		jwt.WithAudience(constants.AudienceStorefront),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		err = fmt.Errorf("failed verifying jwt token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return nil, err
	}
	if !token.Valid {
		err = inErr.ErrTokenInvalid
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return nil, err
	}
	logger.Info().Msg("verified jwt token")

	return token, nil
}

func AttachJwtTokenToContext(c context.Context, token *jwt.Token) context.Context {
	return context.WithValue(c, jwtTokenKey{}, token)
}

func JwtTokenFromContext(c context.Context) (*jwt.Token, error) {
	token, ok := c.Value(jwtTokenKey{}).(*jwt.Token)
	if !ok {
		return nil, inErr.ErrTokenInvalid
	}
	return token, nil
}

func UserIdFromJwtToken(c context.Context) (uuid.UUID, error) {
	c, span := inOtel.Tracer.Start(c, "UserIdFromJwtToken")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserIdFromJwtToken").
		Logger()

	token, err := JwtTokenFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting jwt token from context with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return uuid.Nil, err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		err = fmt.Errorf("failed getting subject from jwt token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return uuid.Nil, err
	}
	if subject == "" {
		err = inErr.ErrEmptySubject
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return uuid.Nil, err
	}

	userId, err := uuid.Parse(subject)
	if err != nil {
		err = fmt.Errorf("failed parsing subject=%s as uuid with error=%w", subject, err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return uuid.Nil, err
	}

	return userId, nil
}

package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/houseofabhilasha/storefront/internal/config"
	"github.com/houseofabhilasha/storefront/internal/log"
)

func NewCacheClient(c context.Context, cfg config.Cache) *redis.Client {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NewCacheClient").
		Logger()

	logger.Info().Msg("creating redis client")
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	if err := client.Ping(c).Err(); err != nil {
		err = fmt.Errorf("failed pinging redis with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("created redis client")

	logger = logger.With().Str(log.KeyProcess, "instrument redis").Logger()
	if err := redisotel.InstrumentTracing(client); err != nil {
		err = fmt.Errorf("failed instrumenting redis tracing with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		err = fmt.Errorf("failed instrumenting redis metrics with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}

	return client
}

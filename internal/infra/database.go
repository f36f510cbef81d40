package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	pgxuuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/houseofabhilasha/storefront/internal/config"
	"github.com/houseofabhilasha/storefront/internal/log"
)

func NewDatabaseClient(c context.Context, cfg config.Database) *pgxpool.Pool {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NewDatabaseClient").
		Logger()

	databaseUrl := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	logger = logger.With().Str(log.KeyProcess, "run migration").Logger()
	logger.Info().Msg("running database migration")
	migration, err := migrate.New(cfg.MigrationPath, databaseUrl)
	if err != nil {
		err = fmt.Errorf("failed creating migration with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		err = fmt.Errorf("failed running migration with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("ran database migration")

	logger = logger.With().Str(log.KeyProcess, "init pool").Logger()
	logger.Info().Msg("parsing pool config")
	poolConfig, err := pgxpool.ParseConfig(databaseUrl)
	if err != nil {
		err = fmt.Errorf("failed parsing pool config with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	poolConfig.AfterConnect = func(c context.Context, conn *pgx.Conn) error {
		pgxuuid.Register(conn.TypeMap())
		return nil
	}

	logger.Info().Msg("creating connection pool")
	pool, err := pgxpool.NewWithConfig(c, poolConfig)
	if err != nil {
		err = fmt.Errorf("failed creating connection pool with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	if err := pool.Ping(c); err != nil {
		err = fmt.Errorf("failed pinging database with error=%w", err)
		logger.Fatal().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("created connection pool")

	return pool
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/houseofabhilasha/storefront/cart/internal/controller"
	"github.com/houseofabhilasha/storefront/cart/internal/service"
	"github.com/houseofabhilasha/storefront/cart/internal/store"
	"github.com/houseofabhilasha/storefront/internal/common/constants"
	"github.com/houseofabhilasha/storefront/internal/config"
	"github.com/houseofabhilasha/storefront/internal/infra"
	"github.com/houseofabhilasha/storefront/internal/log"
	"github.com/houseofabhilasha/storefront/internal/middleware"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
	"github.com/houseofabhilasha/storefront/internal/repository"
)

func RunCartService(c context.Context) {
	cfg := config.Get(c, "cart")
	logger := log.Get("./log/cart-service.log", cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppCartService).
		Logger()
	c = logger.WithContext(c)

	logger.Info().Any(log.KeyConfig, cfg).Msg("starting cart service")

	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppCartService, cfg.Otel)
	if err != nil {
		logger.Fatal().Err(err).Msgf("failed initializing otel sdk with error=%s", err.Error())
	}
	defer func() {
		if err := inOtel.ShutdownOtel(c, shutdownFuncs); err != nil {
			logger.Error().Err(err).Msg("failed shutting down otel sdk")
		}
	}()

	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer pool.Close()
	cache := infra.NewCacheClient(c, cfg.Cache)
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Error().Err(err).Msg("failed closing cache client")
		}
	}()

	cartService := service.NewCartService(
		repository.NewCartLineRepository(pool),
		store.NewRedisGuestStore(cache),
		cache,
	)
	cartController := controller.NewCartController(
		cartService,
		validator.New(validator.WithRequiredStructEnabled()),
		constants.AppMainStorefront,
		cfg.Application,
	)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppCartService),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler())
	controller.AttachCartController(
		router,
		cartController,
		middleware.Auth(constants.AppMainStorefront, cfg.Application),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return c },
	}

	go func() {
		logger.Info().Msgf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msgf("failed serving with error=%s", err.Error())
		}
	}()

	<-c.Done()
	logger.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed shutting down server")
	}
	logger.Info().Msg("cart service stopped")
}

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

	"github.com/houseofabhilasha/storefront/checkout/internal/controller"
	"github.com/houseofabhilasha/storefront/checkout/internal/mail"
	"github.com/houseofabhilasha/storefront/checkout/internal/service"
	"github.com/houseofabhilasha/storefront/internal/common/constants"
	"github.com/houseofabhilasha/storefront/internal/config"
	"github.com/houseofabhilasha/storefront/internal/infra"
	"github.com/houseofabhilasha/storefront/internal/log"
	"github.com/houseofabhilasha/storefront/internal/middleware"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
	"github.com/houseofabhilasha/storefront/internal/repository"
)

func RunCheckoutService(c context.Context) {
	cfg := config.Get(c, "checkout")
	logger := log.Get("./log/checkout-service.log", cfg.Application.Env).
		With().
		Str(log.KeyAppName, constants.AppCheckoutService).
		Logger()
	c = logger.WithContext(c)

	logger.Info().Any(log.KeyConfig, cfg).Msg("starting checkout service")

	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.AppCheckoutService, cfg.Otel)
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

	checkoutService := service.NewCheckoutService(
		repository.NewUserRepository(pool),
		repository.NewProfileRepository(pool),
		repository.NewOrderRepository(pool),
		mail.NewZohoMailer(cfg.Mail),
		cfg.Mail,
	)
	checkoutController := controller.NewCheckoutController(
		checkoutService,
		validator.New(validator.WithRequiredStructEnabled()),
	)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppCheckoutService),
		middleware.Logging,
		middleware.RecoverPanic,
	)
	router.Handle("/metrics", promhttp.Handler())
	controller.AttachCheckoutController(router, checkoutController)

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
	logger.Info().Msg("checkout service stopped")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"laoud/internal/app"
	"laoud/internal/config"
	"laoud/internal/logging"
	"laoud/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "console", nil)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, nil)

	// --- Wiring: storage, catalog, services and routes ---
	storefront, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start storefront")
	}

	// --- Order events consumer ---
	if mq := storefront.OrderEvents(); mq != nil {
		err := mq.ConsumeOrderEvents(func(e rabbitmq.OrderPlacedEvent) error {
			logger.Info().
				Str("order", e.OrderNumber).
				Str("total", e.Total).
				Str("payment", e.PaymentType).
				Str("status", e.PaymentStatus).
				Msg("order placed event received")
			return nil
		})
		if err != nil {
			logger.Warn().Err(err).Msg("failed to start order events consumer")
		}
	}

	// --- Start HTTP Server ---
	logger.Info().Str("port", cfg.AppPort).Msg("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := storefront.Fiber.Listen(cfg.AppPort); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	logger.Info().Msg("shutting down server")

	if err := storefront.Fiber.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during fiber shutdown")
	}
	if err := storefront.Close(); err != nil {
		logger.Error().Err(err).Msg("error closing connections")
	}
	logger.Info().Msg("server gracefully stopped")
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopsphere/payment-gateway/internal/application"
	"github.com/shopsphere/payment-gateway/internal/config"
	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/shopsphere/payment-gateway/internal/infrastructure/paypal"
	"github.com/shopsphere/payment-gateway/internal/infrastructure/persistence/postgres"
	"github.com/shopsphere/payment-gateway/internal/interfaces/rest/handlers"
	"github.com/shopsphere/payment-gateway/internal/interfaces/rest/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payment gateway service",
		"port", cfg.Server.Port,
		"env", cfg.Primary.Env,
		"paypal_environment", cfg.PayPal.Environment,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("failed to apply database schema", "error", err)
		os.Exit(1)
	}

	orderStatusRepo := postgres.NewOrderStatusRepository(db, logger)

	registry := gateway.NewRegistry(logger)
	registry.Register(paypal.Name, paypal.New(
		cfg.PayPal,
		cfg.Retry,
		cfg.Breaker,
		orderStatusRepo,
		logger,
	))

	logger.Info("payment gateways registered", "gateways", registry.Names())

	controller := application.NewPaymentController(registry, logger)

	h := handlers.NewPaymentHandler(controller, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

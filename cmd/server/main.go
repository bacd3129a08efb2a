// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"billing-service/config"
	"billing-service/internal/domain"
	"billing-service/internal/handler"
	"billing-service/internal/provider/mpesa"
	"billing-service/internal/provider/stripe"
	"billing-service/internal/repository"
	"billing-service/internal/router"
	"billing-service/internal/usecase"
	"billing-service/pkg/client"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("starting billing service")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("mpesa_environment", cfg.Mpesa.Environment))

	// Connect to database
	dbConnStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	dbPool, err := pgxpool.New(context.Background(), dbConnStr)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	logger.Info("connected to database",
		zap.String("database", cfg.Database.DBName))

	// Repositories
	topupRepo := repository.NewTopUpRepository(dbPool)

	var ledger domain.Ledger = repository.NewLedgerRepository(dbPool)
	if cfg.Ledger.URL != "" {
		ledger = client.NewLedgerClient(cfg.Ledger, logger)
		logger.Info("using remote ledger", zap.String("ledger_url", cfg.Ledger.URL))
	}

	// Providers
	mpesaClient := mpesa.NewClient(cfg.Mpesa, logger)
	cardProcessor := stripe.NewProcessor(cfg.Stripe.SecretKey, logger)

	// Usecases
	callbackURL := cfg.BaseCallbackURL + "/mpesa/callback"
	topupUC := usecase.NewTopUpUsecase(mpesaClient, topupRepo, callbackURL, logger)
	subscriptionUC := usecase.NewSubscriptionUsecase(cardProcessor, logger)
	callbackUC := usecase.NewCallbackUsecase(ledger, topupRepo, logger)

	// Handlers
	paymentHandler := handler.NewPaymentHandler(subscriptionUC, topupUC, ledger, logger)
	callbackHandler := handler.NewCallbackHandler(callbackUC, logger)

	r := router.SetupRoutes(paymentHandler, callbackHandler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

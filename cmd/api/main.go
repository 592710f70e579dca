package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/idrissabarry/vendgate/internal/bootstrap"
	"github.com/idrissabarry/vendgate/internal/controller"
	infraRedis "github.com/idrissabarry/vendgate/internal/infrastructure/redis"
	"github.com/idrissabarry/vendgate/internal/repository/postgres"
	"github.com/idrissabarry/vendgate/internal/service"
	"github.com/idrissabarry/vendgate/internal/smartpay"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "vendgate-api", "vendgate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	tokenRepo := postgres.NewTokenRepository(app.Pool)
	auditRepo := postgres.NewAuditRepository(app.Pool)
	lockStore := infraRedis.NewLockStore(app.Redis)

	// --- SmartPay gateway ---
	tokenManager := smartpay.NewManager(app.Config.SmartPay, tokenRepo, app.Metrics, app.Logger)
	gateway := smartpay.NewClient(app.Config.SmartPay, tokenManager, app.Metrics, app.Logger)

	// --- Services ---
	guard := service.NewGuard(lockStore, app.Config.SmartPay.LockTTL, app.Metrics, app.Logger)
	vendingService := service.NewVendingService(gateway, tokenManager, guard, auditRepo, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:           app.Pool,
		RedisClient:    app.Redis,
		VendingService: vendingService,
		Metrics:        app.Metrics,
		CORSConfig:     app.Config.Server.CORS,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/idrissabarry/vendgate/internal/bootstrap"
	"github.com/idrissabarry/vendgate/internal/repository/postgres"
	"github.com/idrissabarry/vendgate/internal/smartpay"
)

// checkInterval is how often the keeper re-evaluates the stored token. The
// manager only goes to the gateway when the token is inside its expiry
// buffer, so frequent checks are cheap.
const checkInterval = time.Minute

// The worker keeps the gateway session token warm so API requests rarely pay
// the 20-second issuance round trip inline.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "vendgate-worker", "vendgate_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	tokenRepo := postgres.NewTokenRepository(app.Pool)
	tokenManager := smartpay.NewManager(app.Config.SmartPay, tokenRepo, app.Metrics, app.Logger)

	app.Logger.Info().Dur("interval", checkInterval).Msg("Token keeper started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runTokenKeeper(gCtx, app.Logger, tokenManager)
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}

func runTokenKeeper(ctx context.Context, logger zerolog.Logger, manager *smartpay.Manager) error {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		tok, err := manager.ActiveToken(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Token keeper refresh failed, will retry next tick")
			continue
		}
		logger.Debug().Time("end_time", tok.EndTime).Msg("Session token healthy")
	}
}

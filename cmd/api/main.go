package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/safety-roster/internal/api/http"
	"github.com/spec-kit/safety-roster/internal/api/http/handlers"
	"github.com/spec-kit/safety-roster/internal/auth"
	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/events"
	"github.com/spec-kit/safety-roster/internal/observability"
	"github.com/spec-kit/safety-roster/internal/persistence"
	"github.com/spec-kit/safety-roster/internal/repository"
	"github.com/spec-kit/safety-roster/internal/service"
	"github.com/spec-kit/safety-roster/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer store.Close()

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	stopNotifier := worker.StartNotificationWorker(notifier)

	registry := service.NewRegistryService(*cfg, service.RegistryDependencies{
		StaffRepo:  repository.NewStaffRepository(store),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authenticator, err := auth.NewSharedSecretAuthenticator(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to prepare coordinator secret", zap.Error(err))
	}
	if !authenticator.Enabled() {
		logger.Warn("no coordinator secret configured; roster access is disabled")
	}
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Authenticator: authenticator,
		Logger:        logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Staff:          handlers.NewStaffHandler(registry),
		Auth:           handlers.NewAuthHandler(authService),
		Roster:         handlers.NewRosterHandler(registry, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("store", store.Name()),
			zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopNotifier()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

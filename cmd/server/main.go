package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stanleylima25/ECC-Brasil/internal/api"
	"github.com/stanleylima25/ECC-Brasil/internal/app"
	"github.com/stanleylima25/ECC-Brasil/internal/config"
	"github.com/stanleylima25/ECC-Brasil/internal/observ"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ---------------------------------------------------------------
	// 3. Open storage, broker and blob store
	// ---------------------------------------------------------------
	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	broker, err := app.OpenBroker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer broker.Close()

	blobs, err := app.OpenBlobs(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// 4. Metrics
	// ---------------------------------------------------------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observ.NewMetrics(registry)

	// ---------------------------------------------------------------
	// 5. Services
	// ---------------------------------------------------------------
	store := storage.Store
	notifications := service.NewNotificationService(store.Notifications, broker, metrics, logger)
	services := api.Services{
		Accounts:      service.NewAccountService(store.Users, logger),
		Registrations: service.NewRegistrationService(store.Couples, blobs, logger),
		Events:        service.NewEventService(store.Events, store.Users, notifications, logger),
		Notifications: notifications,
		Chat:          service.NewChatService(store.Messages, broker, metrics, cfg.ChatRetention, logger),
		Directory:     service.NewDirectoryService(store.Regions, store.Songs, logger),
		Gallery:       service.NewGalleryService(store.Photos, store.Events, blobs, logger),
	}

	// ---------------------------------------------------------------
	// 6. HTTP server
	// ---------------------------------------------------------------
	router := api.NewRouter(services, api.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Users:     store.Users,
		Broker:    broker,
		Metrics:   metrics,
		Gatherer:  registry,
		Health:    storage,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting ECC Brasil",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// ---------------------------------------------------------------
	// 7. Graceful shutdown
	//
	// Open WebSocket connections are hijacked and not tracked by
	// Shutdown; they end when the broker closes.
	// ---------------------------------------------------------------
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

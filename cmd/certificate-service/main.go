// cmd/certificate-service/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"certificate-service/internal/callback"
	"certificate-service/internal/common/config"
	"certificate-service/internal/common/database"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/mailer"
	"certificate-service/internal/pipeline"
	"certificate-service/internal/render"
	"certificate-service/internal/server"
	"certificate-service/internal/storage"
	"certificate-service/internal/template"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting certificate service",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	locations := storage.NewLocations(cfg.Storage)
	if err := locations.EnsureDirs(); err != nil {
		zapLog.Fatal("storage directory setup failed", zap.Error(err))
	}

	// --- Template cache (optional) ---
	var redis *database.RedisClient
	if cfg.Cache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Cache)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, template caching disabled", zap.Error(err))
			redis = nil
		} else {
			defer redis.Close()
			zapLog.Info("Redis connected successfully")
		}
	}
	cache := template.NewCache(redis, config.GetDuration(cfg.Cache.TTL), log)

	// --- Email provider ---
	sender, err := mailer.New(ctx, cfg.Email, log)
	if err != nil {
		zapLog.Fatal("mailer setup failed", zap.Error(err))
	}
	if sender == nil {
		zapLog.Info("Email delivery disabled")
	}

	chrome := render.NewChrome(cfg.Renderer, log)
	pool := render.NewPool(cfg.Renderer.MaxConcurrent)
	callbacks := callback.NewClient(config.GetDuration(cfg.Callback.Timeout), log)

	orchestrator := pipeline.New(pipeline.Dependencies{
		Config:    cfg,
		Logger:    log,
		Resolver:  template.NewResolver(locations, log),
		Cache:     cache,
		Renderer:  chrome,
		Pool:      pool,
		Locations: locations,
		Sender:    sender,
		Callbacks: callbacks,
	})

	srv := server.New(cfg, log, orchestrator, locations)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}

// cmd/worker-manager/main.go
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

	"go.uber.org/zap"

	"carprice-workers/internal/common/camunda"
	"carprice-workers/internal/common/config"
	"carprice-workers/internal/common/database"
	apperrors "carprice-workers/internal/common/errors"
	"carprice-workers/internal/common/logger"
	"carprice-workers/internal/common/metrics"
	"carprice-workers/internal/common/observability"
	"carprice-workers/internal/estimator"
	"carprice-workers/internal/estimator/artifacts"

	lcm "carprice-workers/internal/workers/catalog/list-car-models"
	ecp "carprice-workers/internal/workers/pricing/estimate-car-price"
)

// jobWorker is what every worker package's Handler provides.
type jobWorker interface {
	Register() error
	Close()
	GetTaskType() string
}

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
				zap.String("details", errorDetails(err)),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts (%s): %w", operationName, maxRetries, errorDetails(err), err)
}

// errorDetails surfaces the cause a StandardError keeps outside Error().
func errorDetails(err error) string {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) && stdErr.Details != "" {
		return stdErr.Details
	}
	return err.Error()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker manager: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog, err := logger.NewFromConfig(cfg.Logging, cfg.App.Name)
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return fmt.Errorf("observability init failed: %w", err)
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL, only when the catalog lives there ---
	var pg *database.PostgresClient
	if cfg.Artifacts.CatalogSource == config.CatalogSourcePostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return err
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Artifacts: nothing accepts work until the bundle is loaded ---
	bundle, err := loadArtifacts(ctx, cfg, pg, zapLog)
	if err != nil {
		return err
	}
	est := estimator.New(bundle)

	// --- Redis estimate cache ---
	var cache ecp.Cache
	if cfg.Estimation.Cache.Enabled {
		redisClient := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			return err
		}
		defer redisClient.Close()
		cache = redisClient
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))
	}

	// --- Zeebe ---
	camundaClient, err := camunda.NewClientWithConfig(camunda.ConfigFromApp(cfg.Camunda))
	if err != nil {
		return err
	}
	defer camundaClient.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Workers ---
	estimateHandler, err := ecp.NewHandler(ecp.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       camundaClient,
		Logger:        log,
		Estimator:     est,
		Cache:         cache,
		Observability: obs,
	})
	if err != nil {
		return err
	}
	catalogHandler, err := lcm.NewHandler(lcm.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
		Catalog:   bundle.Catalog,
	})
	if err != nil {
		return err
	}

	workers := []jobWorker{estimateHandler, catalogHandler}
	for _, w := range workers {
		if err := w.Register(); err != nil {
			return fmt.Errorf("register %s: %w", w.GetTaskType(), err)
		}
	}
	defer func() {
		for _, w := range workers {
			w.Close()
		}
	}()
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newServeMux(bundle, camundaClient),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
	return nil
}

func loadArtifacts(ctx context.Context, cfg *config.Config, pg *database.PostgresClient, zapLog *zap.Logger) (*artifacts.Artifacts, error) {
	bundle, err := estimator.LoadFromConfig(ctx, cfg.Artifacts, pg.GetDB())
	if err != nil {
		for _, le := range artifacts.LoadErrors(err) {
			zapLog.Error("Artifact failed to load",
				zap.String("artifact", le.Artifact),
				zap.String("path", le.Path),
				zap.Error(le.Err),
			)
		}
		return nil, fmt.Errorf("artifact load failed: %w", err)
	}

	metrics.ArtifactsLoadedTimestamp.Set(float64(bundle.LoadedAt.Unix()))
	zapLog.Info("Artifacts loaded",
		zap.String("fingerprint", bundle.Fingerprint),
		zap.Int("brands", bundle.Catalog.Len()),
		zap.Strings("features", bundle.Model.FeatureNames()),
	)
	return bundle, nil
}

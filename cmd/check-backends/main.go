// Command check-backends verifies connectivity to the deployment backends
// (PostgreSQL and Azure Blob Storage) using the same configuration the server
// loads. Run it before a rollout to catch credential or network problems.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/swasth-health/portal-backend/internal/blob"
	"github.com/swasth-health/portal-backend/internal/config"
	"github.com/swasth-health/portal-backend/internal/store"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	failed := false

	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, skipping PostgreSQL check")
	} else if err := checkPostgres(ctx, cfg.Database.URL, logger); err != nil {
		logger.Error("PostgreSQL check failed", zap.Error(err))
		failed = true
	} else {
		logger.Info("PostgreSQL check passed")
	}

	if cfg.Storage.AccountName == "" {
		logger.Warn("AZURE_STORAGE_ACCOUNT_NAME not set, skipping blob storage check")
	} else if err := checkBlobStorage(ctx, cfg, logger); err != nil {
		logger.Error("Blob storage check failed", zap.Error(err))
		failed = true
	} else {
		logger.Info("Blob storage check passed")
	}

	if failed {
		os.Exit(1)
	}
	logger.Info("All backend checks completed")
}

func checkPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	kv, err := store.NewPostgresStore(ctx, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if err := kv.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	probeKey := fmt.Sprintf("connectivityProbe_%d", time.Now().Unix())
	probeValue := []byte(`{"probe":true}`)

	if err := kv.Put(ctx, probeKey, probeValue); err != nil {
		return fmt.Errorf("probe write failed: %w", err)
	}

	read, err := kv.Get(ctx, probeKey)
	if err != nil {
		return fmt.Errorf("probe read failed: %w", err)
	}
	if !bytes.Equal(read, probeValue) {
		return fmt.Errorf("probe value mismatch: wrote %s, read %s", probeValue, read)
	}

	if err := kv.Delete(ctx, probeKey); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}

	logger.Info("PostgreSQL round trip verified", zap.String("probe_key", probeKey))
	return nil
}

func checkBlobStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	storage, err := blob.NewAzureStorage(
		cfg.Storage.AccountName,
		cfg.Storage.AccountKey,
		cfg.Storage.DocumentContainer,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create blob client: %w", err)
	}

	probeName := fmt.Sprintf("probes/connectivity-%d.txt", time.Now().Unix())
	probeData := []byte("connectivity probe")

	logger.Info("Uploading probe blob", zap.String("blob_name", probeName))
	if err := storage.Upload(ctx, probeName, "text/plain", probeData); err != nil {
		return fmt.Errorf("probe upload failed: %w", err)
	}

	downloaded, err := storage.Download(ctx, probeName)
	if err != nil {
		return fmt.Errorf("probe download failed: %w", err)
	}
	if !bytes.Equal(downloaded, probeData) {
		return fmt.Errorf("probe content mismatch")
	}

	if err := storage.Delete(ctx, probeName); err != nil {
		return fmt.Errorf("probe delete failed: %w", err)
	}

	logger.Info("Blob storage round trip verified",
		zap.String("container", cfg.Storage.DocumentContainer),
		zap.String("blob_name", probeName),
	)
	return nil
}

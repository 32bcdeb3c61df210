package storage

import (
	"context"
	"fmt"

	"budgetboard/internal/config"
	"budgetboard/internal/logger"
)

// NewStorageClient creates a storage client for the configured storage mode
func NewStorageClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (StorageClient, error) {
	switch cfg.StorageMode {
	case config.StorageLocal, "":
		exportDir := cfg.LocalExportDir
		if exportDir == "" {
			exportDir = "exports"
		}

		localClient, err := NewLocalStorageClient(exportDir, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.StorageGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.StorageMode)
	}
}

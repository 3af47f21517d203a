// File: internal/storage/factory.go
package storage

import (
	"strings"

	"github.com/smartdevs17/fitness-logger/internal/config"
	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateStorageConfig(cfg); err != nil {
		return nil, err
	}

	return NewJSONFileStorage(&StorageConfig{
		Path:   cfg.Path,
		Indent: cfg.Indent,
	}), nil
}

// ValidateStorageConfig validates storage configuration
func ValidateStorageConfig(cfg *config.StorageConfig) error {
	if cfg == nil || strings.TrimSpace(cfg.Path) == "" {
		return utils.NewAppError(utils.ErrCodeConfiguration, "Storage path is required", "")
	}
	if strings.HasSuffix(cfg.Path, "/") {
		return utils.NewAppError(utils.ErrCodeConfiguration, "Storage path must name a file", cfg.Path)
	}
	return nil
}

// GetDefaultStorageConfig returns default storage configuration
func GetDefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		Path:   "data.json",
		Indent: true,
	}
}

// File: internal/storage/storage.go
package storage

import (
	"context"
	"time"

	"github.com/smartdevs17/fitness-logger/internal/models"
)

// Storage mirrors the logged state to and from durable storage.
// Save always receives the complete state and replaces what was stored before.
type Storage interface {
	// Load returns the stored state, or empty state when nothing was stored yet
	Load(ctx context.Context) (*models.Data, error)
	// Save overwrites the stored state with data
	Save(ctx context.Context, data *models.Data) error
	Close() error

	GetHealth() *HealthStatus
	GetStats() *StorageStats
}

// HealthStatus reports whether the last storage operation succeeded
type HealthStatus struct {
	Healthy   bool       `json:"healthy"`
	LastError string     `json:"last_error,omitempty"`
	LastSave  *time.Time `json:"last_save,omitempty"`
}

// StorageStats provides storage statistics
type StorageStats struct {
	Path        string     `json:"path"`
	Loads       int64      `json:"loads"`
	Saves       int64      `json:"saves"`
	SaveErrors  int64      `json:"save_errors"`
	FileSize    int64      `json:"file_size_bytes"`
	LastSave    *time.Time `json:"last_save,omitempty"`
	LastLoadLen int        `json:"last_load_entries"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Path   string `json:"path"`
	Indent bool   `json:"indent"`
}

package storage

import (
	"context"
	"time"

	"github.com/smartdevs17/fitness-logger/internal/metrics"
	"github.com/smartdevs17/fitness-logger/internal/models"
)

// StorageWithMetrics wraps a storage implementation with metrics
type StorageWithMetrics struct {
	Storage
	metricsManager *metrics.Manager
}

// NewStorageWithMetrics creates a storage wrapper with metrics
func NewStorageWithMetrics(storage Storage, metricsManager *metrics.Manager) *StorageWithMetrics {
	return &StorageWithMetrics{
		Storage:        storage,
		metricsManager: metricsManager,
	}
}

// Load loads state and records metrics
func (s *StorageWithMetrics) Load(ctx context.Context) (*models.Data, error) {
	start := time.Now()

	data, err := s.Storage.Load(ctx)
	s.record("load", err, start)

	if err == nil && s.metricsManager != nil {
		m := s.metricsManager.GetPrometheusMetrics()
		m.UpdateStoreEntries(string(models.KindExercise), len(data.Exercises))
		m.UpdateStoreEntries(string(models.KindMeal), len(data.Meals))
	}

	return data, err
}

// Save saves state and records metrics
func (s *StorageWithMetrics) Save(ctx context.Context, data *models.Data) error {
	start := time.Now()

	err := s.Storage.Save(ctx, data)
	s.record("save", err, start)

	return err
}

func (s *StorageWithMetrics) record(operation string, err error, start time.Time) {
	if s.metricsManager == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}

	m := s.metricsManager.GetPrometheusMetrics()
	m.RecordStorageOperation(operation, status, time.Since(start))
	m.UpdateComponentHealth("storage", err == nil)
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/fitness-logger/internal/models"
	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

// JSONFileStorage keeps the whole state as a single JSON document on disk
type JSONFileStorage struct {
	config *StorageConfig
	logger *logrus.Entry

	mu    sync.Mutex
	stats StorageStats
	err   error
}

// NewJSONFileStorage creates a new JSON file storage instance
func NewJSONFileStorage(config *StorageConfig) *JSONFileStorage {
	return &JSONFileStorage{
		config: config,
		logger: utils.Component("storage").WithField("path", config.Path),
		stats:  StorageStats{Path: config.Path},
	}
}

// Load reads the persistence file. A missing file yields empty state.
func (s *JSONFileStorage) Load(ctx context.Context) (*models.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.config.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Data file not found, starting with empty log")
		s.recordLoad(0)
		return models.NewData(), nil
	}
	if err != nil {
		return nil, s.fail(opLoad, utils.WrapAppError(utils.ErrCodeStorage, "Failed to read data file", err))
	}

	data := models.NewData()
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, s.fail(opLoad, utils.WrapAppError(utils.ErrCodeStorage, "Malformed data file", err))
	}
	data.Normalize()

	if err := data.Validate(); err != nil {
		return nil, s.fail(opLoad, utils.WrapAppError(utils.ErrCodeStorage, "Invalid entry in data file", err))
	}

	total := len(data.Exercises) + len(data.Meals)
	s.recordLoad(total)
	s.logger.WithFields(logrus.Fields{
		"exercises": len(data.Exercises),
		"meals":     len(data.Meals),
	}).Info("Data file loaded")

	return data, nil
}

// Save rewrites the persistence file through a temporary sibling and a rename,
// so readers never observe a half-written document.
func (s *JSONFileStorage) Save(ctx context.Context, data *models.Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		encoded []byte
		err     error
	)
	if s.config.Indent {
		encoded, err = json.MarshalIndent(data, "", "    ")
	} else {
		encoded, err = json.Marshal(data)
	}
	if err != nil {
		return s.fail(opSave, utils.WrapAppError(utils.ErrCodeStorage, "Failed to encode data", err))
	}

	if err := writeFileAtomic(s.config.Path, encoded); err != nil {
		return s.fail(opSave, utils.WrapAppError(utils.ErrCodeStorage, "Failed to write data file", err))
	}

	now := time.Now()
	s.mu.Lock()
	s.err = nil
	s.stats.Saves++
	s.stats.LastSave = &now
	s.stats.FileSize = int64(len(encoded))
	s.mu.Unlock()

	s.logger.WithField("bytes", len(encoded)).Debug("Data file saved")
	return nil
}

// Close is a no-op; the file is not held open between saves
func (s *JSONFileStorage) Close() error {
	return nil
}

// GetHealth reports the outcome of the last operation
func (s *JSONFileStorage) GetHealth() *HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	health := &HealthStatus{Healthy: s.err == nil, LastSave: s.stats.LastSave}
	if s.err != nil {
		health.LastError = s.err.Error()
	}
	return health
}

// GetStats returns a copy of the storage counters
func (s *JSONFileStorage) GetStats() *StorageStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	return &stats
}

func (s *JSONFileStorage) recordLoad(entries int) {
	s.mu.Lock()
	s.err = nil
	s.stats.Loads++
	s.stats.LastLoadLen = entries
	s.mu.Unlock()
}

const (
	opLoad = "load"
	opSave = "save"
)

func (s *JSONFileStorage) fail(op string, err *utils.AppError) error {
	s.mu.Lock()
	s.err = err
	if op == opSave {
		s.stats.SaveErrors++
	}
	s.mu.Unlock()

	s.logger.WithError(err).WithField("operation", op).Error(err.Message)
	return err
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

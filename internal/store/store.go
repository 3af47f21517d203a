// Package store holds the in-memory exercise and meal logs and mirrors every
// change to persistent storage before reporting success.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/fitness-logger/internal/metrics"
	"github.com/smartdevs17/fitness-logger/internal/models"
	"github.com/smartdevs17/fitness-logger/internal/storage"
	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

// ErrEmptyText is returned when asked to record an entry without text
var ErrEmptyText = models.ErrEmptyText

// Store is the single source of truth for logged entries.
// Mutation and save happen inside one critical section, so concurrent
// requests cannot lose updates or persist out of order.
type Store struct {
	mu      sync.RWMutex
	data    *models.Data
	storage storage.Storage
	now     func() time.Time
	metrics *metrics.Manager
	logger  *logrus.Entry
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used to stamp entries
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMetrics records logged entries on the given manager
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates an empty store backed by st
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		data:    models.NewData(),
		storage: st,
		now:     time.Now,
		logger:  utils.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state wholesale with what storage holds
func (s *Store) Load(ctx context.Context) error {
	data, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"exercises": len(data.Exercises),
		"meals":     len(data.Meals),
	}).Info("Store loaded")
	return nil
}

// RecordExercise places a new exercise entry at the front of the log and saves
func (s *Store) RecordExercise(ctx context.Context, text string) (models.ExerciseEntry, error) {
	if text == "" {
		s.rejected(models.KindExercise)
		return models.ExerciseEntry{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.ExerciseEntry{Exercise: text, Timestamp: models.FormatTimestamp(s.now())}
	previous := s.data.Exercises
	s.data.Exercises = prepend(previous, entry)

	if err := s.storage.Save(ctx, s.data); err != nil {
		s.data.Exercises = previous
		return models.ExerciseEntry{}, err
	}

	s.logged(models.KindExercise, len(s.data.Exercises))
	return entry, nil
}

// RecordMeal places a new meal entry at the front of the log and saves
func (s *Store) RecordMeal(ctx context.Context, text string) (models.MealEntry, error) {
	if text == "" {
		s.rejected(models.KindMeal)
		return models.MealEntry{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.MealEntry{Meal: text, Timestamp: models.FormatTimestamp(s.now())}
	previous := s.data.Meals
	s.data.Meals = prepend(previous, entry)

	if err := s.storage.Save(ctx, s.data); err != nil {
		s.data.Meals = previous
		return models.MealEntry{}, err
	}

	s.logged(models.KindMeal, len(s.data.Meals))
	return entry, nil
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() *models.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Clone()
}

// Counts returns the size of each log
func (s *Store) Counts() map[models.Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[models.Kind]int{
		models.KindExercise: s.data.Count(models.KindExercise),
		models.KindMeal:     s.data.Count(models.KindMeal),
	}
}

// prepend returns a new slice so the previous one stays intact for rollback
func prepend[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

func (s *Store) logged(kind models.Kind, size int) {
	s.logger.WithFields(logrus.Fields{"kind": kind, "entries": size}).Debug("Entry recorded")
	if s.metrics != nil {
		s.metrics.GetPrometheusMetrics().RecordEntryLogged(string(kind), size)
	}
}

func (s *Store) rejected(kind models.Kind) {
	if s.metrics != nil {
		s.metrics.GetPrometheusMetrics().RecordEntryRejected(string(kind), "empty")
	}
}

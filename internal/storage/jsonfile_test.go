package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartdevs17/fitness-logger/internal/config"
	"github.com/smartdevs17/fitness-logger/internal/metrics"
	"github.com/smartdevs17/fitness-logger/internal/models"
	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

func newTestStorage(t *testing.T) (*JSONFileStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	return NewJSONFileStorage(&StorageConfig{Path: path, Indent: true}), path
}

func sampleData() *models.Data {
	ts := models.FormatTimestamp(time.Date(2024, 5, 2, 6, 30, 0, 0, time.UTC))
	return &models.Data{
		Exercises: []models.ExerciseEntry{
			{Exercise: "Row", Timestamp: ts},
			{Exercise: "Swim", Timestamp: ts},
			{Exercise: "Run", Timestamp: ts},
		},
		Meals: []models.MealEntry{
			{Meal: "Oatmeal", Timestamp: ts},
		},
	}
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	store, _ := newTestStorage(t)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, data.Exercises)
	assert.Empty(t, data.Meals)
	assert.NotNil(t, data.Exercises)
	assert.True(t, store.GetHealth().Healthy)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, path := newTestStorage(t)
	ctx := context.Background()

	want := sampleData()
	require.NoError(t, store.Save(ctx, want))

	reopened := NewJSONFileStorage(&StorageConfig{Path: path})
	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	stats := store.GetStats()
	assert.Equal(t, int64(1), stats.Saves)
	assert.NotNil(t, stats.LastSave)
	assert.Positive(t, stats.FileSize)
	assert.Equal(t, 4, reopened.GetStats().LastLoadLen)
}

func TestSaveWritesFileShape(t *testing.T) {
	store, path := newTestStorage(t)
	require.NoError(t, store.Save(context.Background(), sampleData()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Row", doc["exercises"][0]["exercise"])
	assert.Equal(t, "Oatmeal", doc["meals"][0]["meal"])
	assert.Contains(t, doc["meals"][0], "timestamp")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestSaveOverwritesCompletely(t *testing.T) {
	store, path := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleData()))
	require.NoError(t, store.Save(ctx, models.NewData()))

	got, err := NewJSONFileStorage(&StorageConfig{Path: path}).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Exercises)
	assert.Empty(t, got.Meals)
}

func TestLoadOriginalServiceFile(t *testing.T) {
	store, path := newTestStorage(t)
	content := `{
    "exercises": [
        {"exercise": "Push ups", "timestamp": "2024-03-01T07:15:42.118204"}
    ],
    "meals": []
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Exercises, 1)
	assert.Equal(t, "Push ups", data.Exercises[0].Exercise)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"exercises": [`},
		{"empty file", ``},
		{"wrong shape", `{"exercises": "Run"}`},
		{"empty text", `{"exercises": [{"exercise": "", "timestamp": "2024-03-01T07:15:42"}], "meals": []}`},
		{"bad timestamp", `{"exercises": [], "meals": [{"meal": "Soup", "timestamp": "lunch"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStorage(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := store.Load(context.Background())
			require.Error(t, err)
			assert.True(t, utils.HasCode(err, utils.ErrCodeStorage))
			assert.False(t, store.GetHealth().Healthy)
		})
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	store := NewJSONFileStorage(&StorageConfig{Path: filepath.Join(blocker, "data.json")})
	err := store.Save(context.Background(), sampleData())

	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.ErrCodeStorage))
	assert.Equal(t, int64(1), store.GetStats().SaveErrors)
	assert.False(t, store.GetHealth().Healthy)
}

func TestCanceledContext(t *testing.T) {
	store, _ := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, sampleData()), context.Canceled)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorageWithMetrics(t *testing.T) {
	inner, _ := newTestStorage(t)
	manager := metrics.NewManager()
	store := NewStorageWithMetrics(inner, manager)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleData()))
	_, err := store.Load(ctx)
	require.NoError(t, err)

	m := manager.GetPrometheusMetrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageOperationsTotal.WithLabelValues("save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageOperationsTotal.WithLabelValues("load", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StoreEntries.WithLabelValues("exercise")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ComponentHealth.WithLabelValues("storage")))
}

func TestNewStorage(t *testing.T) {
	_, err := NewStorage(&config.StorageConfig{Path: ""})
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.ErrCodeConfiguration))

	_, err = NewStorage(&config.StorageConfig{Path: "dir/"})
	require.Error(t, err)

	store, err := NewStorage(&config.StorageConfig{Path: filepath.Join(t.TempDir(), "data.json")})
	require.NoError(t, err)
	assert.IsType(t, &JSONFileStorage{}, store)
	assert.Equal(t, "data.json", GetDefaultStorageConfig().Path)
}

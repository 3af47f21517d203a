// File: internal/server/server.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/fitness-logger/internal/bmi"
	"github.com/smartdevs17/fitness-logger/internal/metrics"
	"github.com/smartdevs17/fitness-logger/internal/models"
	"github.com/smartdevs17/fitness-logger/internal/storage"
	"github.com/smartdevs17/fitness-logger/internal/store"
	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `json:"port"`
	Host          string        `json:"host"`
	ReadTimeout   time.Duration `json:"read_timeout"`
	WriteTimeout  time.Duration `json:"write_timeout"`
	EnableMetrics bool          `json:"enable_metrics"`
	EnableHealth  bool          `json:"enable_health"`
	Version       string        `json:"version"`
}

// HTTPServer serves the log page and the logging API
type HTTPServer struct {
	config         *ServerConfig
	server         *http.Server
	router         *mux.Router
	store          *store.Store
	storage        storage.Storage
	templates      *Templates
	metricsManager *metrics.Manager
	logger         *logrus.Entry
	stop           chan struct{}
}

// NewHTTPServer creates a new HTTP server. st is only consulted for health
// reporting and may be nil; metricsManager may be nil to disable metrics.
func NewHTTPServer(
	config *ServerConfig,
	entries *store.Store,
	st storage.Storage,
	metricsManager *metrics.Manager,
) (*HTTPServer, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	server := &HTTPServer{
		config:         config,
		store:          entries,
		storage:        st,
		templates:      templates,
		metricsManager: metricsManager,
		logger:         utils.Component("server"),
		stop:           make(chan struct{}),
	}

	// Setup router
	server.setupRouter()

	// Create HTTP server
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      server.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server, nil
}

// setupRouter sets up the HTTP routes
func (s *HTTPServer) setupRouter() {
	s.router = mux.NewRouter()

	// Middleware
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
	if s.metricsManager != nil {
		s.router.Use(s.metricsMiddleware)
	}

	s.router.HandleFunc("/", s.indexHandler).Methods("GET")
	s.router.HandleFunc("/log/exercise", s.logExerciseHandler).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/log/meal", s.logMealHandler).Methods("POST", "OPTIONS")
	s.router.HandleFunc("/calculate_bmi", s.calculateBMIHandler).Methods("POST", "OPTIONS")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/entries", s.entriesHandler).Methods("GET")

	if s.config.EnableHealth {
		api.HandleFunc("/health", s.healthHandler).Methods("GET")
	}

	if s.config.EnableMetrics && s.metricsManager != nil {
		s.router.Handle("/metrics", s.metricsManager.Handler()).Methods("GET")
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "Not found", nil)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
}

// Handler returns the routed handler, for embedding or tests
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *HTTPServer) Start() error {
	s.logger.WithFields(logrus.Fields{
		"address":         s.server.Addr,
		"metrics_enabled": s.config.EnableMetrics,
	}).Info("Starting HTTP server")

	if s.metricsManager != nil {
		s.updateHealthMetrics()
		go s.systemMetricsUpdater()
	}

	// Create a channel to receive startup errors
	errChan := make(chan error, 1)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("HTTP server error")
			errChan <- err
		}
	}()

	// Give the server a moment to start and check for immediate binding errors
	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start HTTP server: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// systemMetricsUpdater updates system metrics periodically
func (s *HTTPServer) systemMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.updateHealthMetrics()
		case <-s.stop:
			return
		}
	}
}

func (s *HTTPServer) updateHealthMetrics() {
	s.metricsManager.UpdateSystemMetrics()
	if s.storage != nil {
		s.metricsManager.GetPrometheusMetrics().UpdateComponentHealth("storage", s.storage.GetHealth().Healthy)
	}
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	close(s.stop)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Page Handlers

// indexHandler renders every logged exercise and meal, newest first
func (s *HTTPServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.templates.Execute(&buf, "index.html", indexPage{Data: s.store.Snapshot()}); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WithError(err).Warn("Failed to write page")
	}
}

// Log Handlers

// logExerciseHandler records an exercise from {"exercise": "..."}
func (s *HTTPServer) logExerciseHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r, "exercise", "Exercise")
	if !ok {
		return
	}

	if _, err := s.store.RecordExercise(r.Context(), text); err != nil {
		s.writeRecordError(w, "Exercise", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Exercise logged successfully",
	})
}

// logMealHandler records a meal from {"meal": "..."}
func (s *HTTPServer) logMealHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.decodeText(w, r, "meal", "Meal")
	if !ok {
		return
	}

	if _, err := s.store.RecordMeal(r.Context(), text); err != nil {
		s.writeRecordError(w, "Meal", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Meal logged successfully",
	})
}

// calculateBMIHandler computes BMI from {"weight": kg, "height": m}
func (s *HTTPServer) calculateBMIHandler(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		s.recordBMI("invalid")
		return
	}

	weight, height, err := bmi.Measurements(body["weight"], body["height"])
	if err != nil {
		s.recordBMI("invalid")
		switch {
		case errors.Is(err, bmi.ErrMissingInput):
			s.writeError(w, http.StatusBadRequest, "Weight and height are required", nil)
		default:
			s.writeError(w, http.StatusBadRequest, "Weight and height must be numbers", nil)
		}
		return
	}

	result, err := bmi.Evaluate(weight, height)
	if errors.Is(err, bmi.ErrZeroHeight) {
		s.recordBMI("invalid")
		s.writeError(w, http.StatusBadRequest, "Height cannot be zero", nil)
		return
	}
	if errors.Is(err, bmi.ErrOutOfRange) {
		s.recordBMI("invalid")
		s.writeError(w, http.StatusBadRequest, "Weight and height are out of range", nil)
		return
	}
	if err != nil {
		s.recordBMI("error")
		s.writeError(w, http.StatusInternalServerError, "Failed to calculate BMI", err)
		return
	}

	s.recordBMI("ok")
	s.writeJSON(w, http.StatusOK, result)
}

// API Handlers

// entriesHandler returns the current state in the persistence file shape
func (s *HTTPServer) entriesHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// healthHandler returns basic health status
func (s *HTTPServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	counts := s.store.Counts()
	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"version":   s.config.Version,
		"entries": map[string]int{
			"exercises": counts[models.KindExercise],
			"meals":     counts[models.KindMeal],
		},
		"metrics_enabled": s.config.EnableMetrics,
	}

	status := http.StatusOK
	if s.storage != nil {
		health := s.storage.GetHealth()
		resp["storage"] = health
		if !health.Healthy {
			resp["status"] = "degraded"
		}
	}

	s.writeJSON(w, status, resp)
}

// Utility Methods

// decodeBody reads a JSON object request body
func (s *HTTPServer) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	if body == nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}
	return body, true
}

// decodeText extracts a required non-empty string field from the body
func (s *HTTPServer) decodeText(w http.ResponseWriter, r *http.Request, field, label string) (string, bool) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return "", false
	}

	switch v := body[field].(type) {
	case string:
		if v != "" {
			return v, true
		}
	case nil:
	default:
		s.writeError(w, http.StatusBadRequest, label+" must be a string", nil)
		return "", false
	}

	s.writeError(w, http.StatusBadRequest, label+" cannot be empty", nil)
	return "", false
}

// writeRecordError maps a store failure onto a response
func (s *HTTPServer) writeRecordError(w http.ResponseWriter, label string, err error) {
	if errors.Is(err, store.ErrEmptyText) {
		s.writeError(w, http.StatusBadRequest, label+" cannot be empty", nil)
		return
	}
	s.writeError(w, http.StatusInternalServerError, "Failed to persist entry", err)
}

func (s *HTTPServer) recordBMI(outcome string) {
	if s.metricsManager != nil {
		s.metricsManager.GetPrometheusMetrics().RecordBMICalculation(outcome)
	}
}

// writeJSON writes a JSON response. The body is encoded before the status is
// sent so an unencodable value turns into a 500 rather than an empty 200.
func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
		status = http.StatusInternalServerError
		buf.Reset()
		fmt.Fprintf(&buf, "{\"error\":%q,\"code\":%q,\"status\":%d}\n",
			"Failed to encode response", utils.ErrCodeInternal, status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WithError(err).Warn("Failed to write JSON response")
	}
}

// writeError writes an error response
func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string, err error) {
	errorResponse := map[string]interface{}{
		"error":     message,
		"code":      errorCode(status),
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err != nil {
		errorResponse["details"] = err.Error()
		s.logger.WithFields(logrus.Fields{
			"status":  status,
			"message": message,
		}).WithError(err).Error("HTTP error")
	}

	s.writeJSON(w, status, errorResponse)
}

// errorCode maps an HTTP status onto the application error code reported to clients
func errorCode(status int) string {
	switch {
	case status == http.StatusNotFound:
		return utils.ErrCodeNotFound
	case status >= http.StatusInternalServerError:
		return utils.ErrCodeInternal
	default:
		return utils.ErrCodeValidation
	}
}

// File: cmd/fitlog/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smartdevs17/fitness-logger/internal/config"
	"github.com/smartdevs17/fitness-logger/internal/metrics"
	"github.com/smartdevs17/fitness-logger/internal/server"
	"github.com/smartdevs17/fitness-logger/internal/storage"
	"github.com/smartdevs17/fitness-logger/internal/store"
	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

// AppVersion contains the application version
const AppVersion = "1.0.0"

// Application wires storage, the entry store and the HTTP server together
type Application struct {
	config  *config.Config
	logger  *logrus.Logger
	metrics *metrics.Manager
	storage storage.Storage
	store   *store.Store
	server  *server.HTTPServer
}

// NewApplication creates a new application instance
func NewApplication(cfg *config.Config) (*Application, error) {
	app := &Application{config: cfg}

	if err := app.initializeLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := app.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return app, nil
}

// initializeLogger initializes the application logger
func (app *Application) initializeLogger() error {
	logCfg := app.config.Logging

	if err := utils.InitLogger(logCfg.Level, logCfg.Format, logCfg.Output, logCfg.File); err != nil {
		return err
	}

	app.logger = utils.GetLogger()
	app.logger.WithFields(logrus.Fields{
		"level":  logCfg.Level,
		"format": logCfg.Format,
		"output": logCfg.Output,
	}).Debug("Logger initialized")

	return nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	if app.config.Server.EnableMetrics {
		app.metrics = metrics.NewManager()
	}

	inner, err := storage.NewStorage(&app.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	app.storage = inner
	if app.metrics != nil {
		app.storage = storage.NewStorageWithMetrics(inner, app.metrics)
	}

	opts := []store.Option{}
	if app.metrics != nil {
		opts = append(opts, store.WithMetrics(app.metrics))
	}
	app.store = store.New(app.storage, opts...)

	serverCfg := &server.ServerConfig{
		Port:          app.config.Server.Port,
		Host:          app.config.Server.Host,
		ReadTimeout:   app.config.Server.ReadTimeout,
		WriteTimeout:  app.config.Server.WriteTimeout,
		EnableMetrics: app.config.Server.EnableMetrics,
		EnableHealth:  app.config.Server.EnableHealth,
		Version:       AppVersion,
	}

	app.server, err = server.NewHTTPServer(serverCfg, app.store, app.storage, app.metrics)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return nil
}

// Start loads persisted entries and then starts serving
func (app *Application) Start(ctx context.Context) error {
	app.logger.WithFields(logrus.Fields{
		"version":     AppVersion,
		"environment": app.config.App.Environment,
		"data_file":   app.config.Storage.Path,
	}).Info("Starting fitness logger")

	if err := app.store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load persisted entries: %w", err)
	}

	if err := app.server.Start(); err != nil {
		return err
	}

	app.logger.WithField("server_address", app.config.Server.Address()).Info("Fitness logger started")
	return nil
}

// Stop stops the application gracefully
func (app *Application) Stop(ctx context.Context) error {
	app.logger.Info("Stopping fitness logger")

	if err := app.server.Stop(ctx); err != nil {
		app.logger.WithError(err).Error("Failed to stop HTTP server")
	}

	if err := app.storage.Close(); err != nil {
		app.logger.WithError(err).Error("Failed to close storage")
	}

	app.logger.Info("Fitness logger stopped")
	if err := utils.CloseLogger(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// CLI Commands

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "fitlog",
	Short:        "Personal exercise and meal log server",
	Long:         `A small web server that records exercises and meals to a JSON file, lists them on a single page and calculates BMI.`,
	Version:      AppVersion,
	SilenceUsage: true,
	RunE:         runServer,
}

// loadConfig loads configuration and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServer is the main command to run the server
func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	app, err := NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	<-ctx.Done()
	fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived shutdown signal, stopping application...")

	return app.Stop(context.Background())
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Fitness Logger %s\n", AppVersion)
	},
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

// validateConfigCmd validates the configuration
var validateConfigCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration is valid!\n")
		fmt.Fprintf(out, "Environment: %s\n", cfg.App.Environment)
		fmt.Fprintf(out, "Data file: %s\n", cfg.Storage.Path)
		fmt.Fprintf(out, "Listen: %s\n", cfg.Server.Address())
		fmt.Fprintf(out, "Metrics: %t\n", cfg.Server.EnableMetrics)

		return nil
	},
}

// init initializes the CLI commands
func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(validateConfigCmd)
}

// main is the entry point
func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/smartdevs17/fitness-logger/pkg/utils"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig points at the persistence file
type StorageConfig struct {
	Path   string `mapstructure:"path"`
	Indent bool   `mapstructure:"indent"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port          int           `mapstructure:"port"`
	Host          string        `mapstructure:"host"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	EnableMetrics bool          `mapstructure:"enable_metrics"`
	EnableHealth  bool          `mapstructure:"enable_health"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
	Output string `mapstructure:"output"` // stdout, file
	File   string `mapstructure:"file"`
}

// EnvPrefix is prepended to every environment override, e.g. FITLOG_SERVER_PORT
const EnvPrefix = "FITLOG"

// Load loads configuration from file and environment variables.
// An empty configPath searches ./config.yaml and falls back to defaults when absent.
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.New(), configPath)
}

// LoadWith loads configuration into the supplied viper instance
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return nil, utils.WrapAppError(utils.ErrCodeConfiguration, "Failed to read config file", err)
		}
		utils.Component("config").Debug("Config file not found, using defaults and environment variables")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, utils.WrapAppError(utils.ErrCodeConfiguration, "Failed to unmarshal config", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "fitness-logger")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Storage defaults
	v.SetDefault("storage.path", "data.json")
	v.SetDefault("storage.indent", true)

	// Server defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.enable_metrics", true)
	v.SetDefault("server.enable_health", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return utils.NewAppError(utils.ErrCodeConfiguration, "Storage path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return utils.NewAppError(utils.ErrCodeConfiguration, "Server port out of range", fmt.Sprintf("%d", c.Server.Port))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return utils.NewAppError(utils.ErrCodeConfiguration, "Unsupported log format", c.Logging.Format)
	}
	if c.Logging.Output == "file" && c.Logging.File == "" {
		return utils.NewAppError(utils.ErrCodeConfiguration, "Log file is required when logging output is file")
	}
	return nil
}

// Address returns the host:port the HTTP server binds to
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimestampFormat is the layout used by every log formatter
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

var Logger *logrus.Logger

// logFile is the file the global logger writes to when output is "file"
var logFile io.Closer

// InitLogger initializes the global logger, closing any log file opened by a previous call
func InitLogger(level, format, output, file string) error {
	logger, err := NewLogger(level, format, output, file)
	if err != nil {
		return err
	}

	if err := CloseLogger(); err != nil {
		logger.WithError(err).Warn("Failed to close previous log file")
	}
	Logger = logger
	if f, ok := logger.Out.(*os.File); ok && f != os.Stdout {
		logFile = f
	}
	return nil
}

// CloseLogger closes the global log file, if any, and sends further output to stdout
func CloseLogger() error {
	if logFile == nil {
		return nil
	}
	if Logger != nil {
		Logger.SetOutput(os.Stdout)
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// NewLogger builds a logger without touching the global instance
func NewLogger(level, format, output, file string) (*logrus.Logger, error) {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(logLevel)

	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: TimestampFormat})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: TimestampFormat,
		})
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	var out io.Writer = os.Stdout
	if output == "file" && file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}
		out = f
	}
	logger.SetOutput(out)

	return logger, nil
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		// Initialize with defaults if not already initialized
		InitLogger("info", "json", "stdout", "")
	}
	return Logger
}

// Component returns an entry tagged with the component name
func Component(name string) *logrus.Entry {
	return GetLogger().WithField("component", name)
}

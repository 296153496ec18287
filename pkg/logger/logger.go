// Package logger wires up the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance used throughout the application. It is
// always non-nil: a default instance is created at package load, and Init
// reconfigures it from the environment at process startup.
var Log = logrus.New()

// Init configures the global logger. Call once at process startup, before
// any other package logs anything.
func Init() {
	// Log level from LOG_LEVEL, defaulting to info.
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// LOG_FORMAT=json for production log collection; anything else gets
	// the colored text formatter for local development.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Component returns a logger entry pre-tagged with a "component" field,
// the pattern internal/field and internal/refai use for their own log
// lines.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// internal/logging/logging.go
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init is called
// (default level info) so that early startup code can log too.
var Log = logrus.New()

// Init configures the global logger with the given level.
func Init(level string) {
	// Using JSON format for structured logging.
	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetOutput(os.Stdout)

	switch strings.ToLower(level) {
	case "trace":
		Log.SetLevel(logrus.TraceLevel)
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	default:
		Log.SetLevel(logrus.InfoLevel)
	}
}

// Migrations returns the logger entry used for everything related to
// schema migrations, namespaced under its own channel.
func Migrations() *logrus.Entry {
	return Log.WithField("channel", "migrations")
}

// GooseLogger adapts the migrations channel to the interface goose
// expects. Fatalf terminates the process, which is the intended
// behavior during a failed migration run.
type GooseLogger struct{}

func (GooseLogger) Printf(format string, v ...interface{}) {
	Migrations().Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (GooseLogger) Fatalf(format string, v ...interface{}) {
	Migrations().Fatalf(strings.TrimSuffix(format, "\n"), v...)
}

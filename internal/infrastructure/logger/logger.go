// Package logger owns the process-wide zerolog instance. The logger starts
// with console/info defaults so init-time code can log before configuration
// is parsed; Configure rebuilds it from config once Load has run.
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu           sync.RWMutex
	globalLogger = newLogger(zerolog.InfoLevel, "console")
)

// GetLogger returns the global logger instance.
func GetLogger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Configure rebuilds the global logger from LOG_LEVEL / LOG_FORMAT values.
// The previous logger stays in place when either value is invalid.
func Configure(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return GetLogger(), fmt.Errorf("parse log level %q: %w", level, err)
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != "json" && format != "console" {
		return GetLogger(), errors.New("unsupported log format " + format)
	}

	log := newLogger(lvl, format)
	zerolog.SetGlobalLevel(lvl)

	mu.Lock()
	globalLogger = log
	mu.Unlock()
	return log, nil
}

func newLogger(lvl zerolog.Level, format string) zerolog.Logger {
	if format == "json" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl)
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(consoleWriter).With().Timestamp().Logger().Level(lvl)
}

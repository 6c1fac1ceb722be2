// Package applog provides general-purpose application logging.
//
// Logs are written to ~/.liturgi/logs/app.log as zerolog JSON lines.
// Covers: app start/stop, config loading, dataset loads, history writes.
// Nothing is ever written to stdout/stderr because the TUI owns the terminal.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	logger  = zerolog.Nop()
	closers []io.Closer
)

func init() {
	l, err := OpenFile("app.log")
	if err != nil {
		return
	}
	logger = l
}

// Dir returns the log directory (~/.liturgi/logs).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".liturgi", "logs"), nil
}

// OpenFile opens (or creates) a log file under Dir and returns a logger
// writing to it. The file is closed by Close.
func OpenFile(name string) (zerolog.Logger, error) {
	dir, err := Dir()
	if err != nil {
		return zerolog.Nop(), err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return zerolog.Nop(), err
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop(), err
	}

	mu.Lock()
	closers = append(closers, f)
	mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(f).With().Timestamp().Logger(), nil
}

// SetOutput redirects the application logger, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// Logger returns the application logger.
func Logger() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := logger
	return &l
}

// Info logs a general info message.
func Info(format string, args ...interface{}) {
	Logger().Info().Msg(fmt.Sprintf(format, args...))
}

// Warn logs a recoverable problem.
func Warn(format string, args ...interface{}) {
	Logger().Warn().Msg(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	Logger().Error().Msg(fmt.Sprintf(format, args...))
}

// Event logs a structured event with a category.
func Event(category string, format string, args ...interface{}) {
	Logger().Info().Str("category", category).Msg(fmt.Sprintf(format, args...))
}

// Close flushes and closes every log file opened by this package.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range closers {
		c.Close()
	}
	closers = nil
	logger = zerolog.Nop()
}

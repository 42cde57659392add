// Package logger provides process-wide logging for the relevance engine.
// Debug and info messages are only emitted in verbose mode; warnings and
// errors are always written. Output is rendered by zerolog, either as a
// human-readable console line or as JSON for log shippers.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
	format            = FormatConsole
	zl                = build(output, format, verbose)
)

func build(w io.Writer, f string, v bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if v {
		level = zerolog.DebugLevel
	}

	if f == FormatJSON {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(cw).Level(level)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	zl = build(output, format, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	zl = build(output, format, verbose)
}

// SetFormat switches between console and JSON output.
// Unknown formats fall back to console.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	zl = build(output, format, verbose)
}

// Debug logs a debug message if verbose mode is enabled.
func Debug(msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	zl.Debug().Msgf(msg, args...)
}

// Section prints a section header if verbose mode is enabled.
// Headers are plain text in console mode and a debug event in JSON mode.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	if format == FormatJSON {
		zl.Debug().Str("section", name).Send()
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

// Info logs an informational message if verbose mode is enabled.
func Info(msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	zl.Info().Msgf(msg, args...)
}

// Warn logs a warning.
func Warn(msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	zl.Warn().Msgf(msg, args...)
}

// Error logs an error with the error value attached as a field.
func Error(err error, msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	zl.Error().Err(err).Msgf(msg, args...)
}

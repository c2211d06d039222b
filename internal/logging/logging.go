// Package logging configures zerolog for hookify.
//
// Two loggers exist. Diagnostics is the operator-facing channel the rule
// loader reports skipped files on: plain "Warning: ..." and "Error: ..."
// lines on stderr, whatever the CLI log format. The global logger (log.Logger)
// carries debug and progress output and follows --log-level/--log-format.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewDiagnostics returns a logger that writes one "Warning: <msg>" or
// "Error: <msg>" line per event to w. Events below warn level are discarded.
func NewDiagnostics(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     true,
		PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: formatDiagnosticLevel,
	}
	return zerolog.New(cw).Level(zerolog.WarnLevel)
}

// formatDiagnosticLevel maps zerolog level names to the diagnostic prefixes.
func formatDiagnosticLevel(i interface{}) string {
	switch fmt.Sprint(i) {
	case zerolog.LevelWarnValue:
		return "Warning:"
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return "Error:"
	default:
		return strings.ToUpper(fmt.Sprint(i)) + ":"
	}
}

// SetupLogger configures the global logger.
// level is a zerolog level name; format is "json" or "text".
func SetupLogger(level, format string) error {
	return setupLogger(os.Stderr, level, format)
}

func setupLogger(w io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "json":
	case "text":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return fmt.Errorf("invalid log format %q (expected json or text)", format)
	}

	// Per-logger level: the global level must stay open for NewDiagnostics.
	log.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if lvl <= zerolog.DebugLevel {
		log.Logger = log.Logger.With().Caller().Logger()
	}
	return nil
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

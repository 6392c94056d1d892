package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentLogger provides structured logging for the query runner
type ComponentLogger struct {
	logger zerolog.Logger
}

// NewComponentLogger creates a component-specific logger with consistent context
func NewComponentLogger(componentName, version string) *ComponentLogger {
	// Configure zerolog globally
	zerolog.TimeFieldFormat = time.RFC3339

	// Set log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	switch logLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Console output for development
	if os.Getenv("ENVIRONMENT") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		})
	}

	// Create component-specific logger
	logger := log.With().
		Str("component", componentName).
		Str("version", version).
		Logger()

	return &ComponentLogger{
		logger: logger,
	}
}

func (cl *ComponentLogger) Info() *zerolog.Event {
	return cl.logger.Info()
}

func (cl *ComponentLogger) Error() *zerolog.Event {
	return cl.logger.Error()
}

func (cl *ComponentLogger) Warn() *zerolog.Event {
	return cl.logger.Warn()
}

func (cl *ComponentLogger) Debug() *zerolog.Event {
	return cl.logger.Debug()
}

// LogDatasetLoad logs a completed dataset load with structured fields
func (cl *ComponentLogger) LogDatasetLoad(path string, rows int64, columns int, duration time.Duration) {
	cl.Info().
		Str("operation", "dataset_load").
		Str("path", path).
		Int64("rows", rows).
		Int("columns", columns).
		Dur("load_time", duration).
		Str("format", "parquet").
		Msg("Dataset loaded")
}

// LogQuery logs a completed query execution
func (cl *ComponentLogger) LogQuery(name string, inputRows, outputRows int64, duration time.Duration) {
	cl.Info().
		Str("operation", "query").
		Str("query", name).
		Int64("input_rows", inputRows).
		Int64("output_rows", outputRows).
		Dur("query_time", duration).
		Msg("Query completed")
}

// LogSchemaValidation logs schema validation results
func (cl *ComponentLogger) LogSchemaValidation(path string, compatible bool) {
	cl.Info().
		Str("operation", "schema_validation").
		Str("path", path).
		Bool("compatible", compatible).
		Msg("Schema validation completed")
}

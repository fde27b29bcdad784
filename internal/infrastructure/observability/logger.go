package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the global zerolog logger. Development gets a
// console writer, everything else structured JSON with caller info.
func InitLogger(serviceName, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var base zerolog.Logger
	if env == "development" {
		base = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		base = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()
	}
	log.Logger = base.With().Str("service", serviceName).Logger()
}

// LoggerFromContext returns the global logger enriched with the active
// span's trace and span IDs, when a valid span is present.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		logger = logger.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}

	return &logger
}

// GetLogger returns the global logger.
func GetLogger() *zerolog.Logger {
	return &log.Logger
}

// Package logger builds the application zap logger and enriches log
// lines with request and trace identity.
package logger

import (
	"context"

	"github.com/smallbiznis/loanhub/internal/config"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("logger",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, log *zap.Logger) {
		restore := zap.ReplaceGlobals(log)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				restore()
				_ = log.Sync()
				return nil
			},
		})
	}),
)

// New builds a production logger, or a human-readable development
// logger outside production.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// FromContext returns the global logger enriched with the active
// span's trace and span ids when one is recording.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

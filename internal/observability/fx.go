// Package observability bundles logging, tracing and metrics wiring.
package observability

import (
	"github.com/smallbiznis/loanhub/internal/observability/logger"
	"github.com/smallbiznis/loanhub/internal/observability/metrics"
	"github.com/smallbiznis/loanhub/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	logger.Module,
	fx.Provide(tracing.NewProvider),
	fx.Provide(metrics.NewOfferMetrics),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// Package metrics defines low-cardinality instruments for the offer
// aggregation path.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OfferMetrics records aggregation timings and per-provider outcomes.
type OfferMetrics struct {
	aggregationDuration metric.Float64Histogram
	providerCalls       metric.Int64Counter
}

// NewOfferMetrics creates the aggregation instruments on the global
// meter provider.
func NewOfferMetrics() (*OfferMetrics, error) {
	meter := otel.GetMeterProvider().Meter("loanhub/offers")

	aggregationDuration, err := meter.Float64Histogram("offers.aggregation.duration_ms")
	if err != nil {
		return nil, err
	}
	providerCalls, err := meter.Int64Counter("offers.provider.calls")
	if err != nil {
		return nil, err
	}
	return &OfferMetrics{
		aggregationDuration: aggregationDuration,
		providerCalls:       providerCalls,
	}, nil
}

// RecordAggregation records one completed aggregation call.
func (m *OfferMetrics) RecordAggregation(ctx context.Context, durationMs float64, providers int) {
	if m == nil {
		return
	}
	m.aggregationDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.Int("providers", providers),
	))
}

// RecordProviderCall counts one provider outcome by status label.
func (m *OfferMetrics) RecordProviderCall(ctx context.Context, provider string, status string) {
	if m == nil {
		return
	}
	m.providerCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

package service

import (
	"context"
	"sort"

	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/config"
	"github.com/smallbiznis/loanhub/internal/observability/metrics"
	"github.com/smallbiznis/loanhub/internal/observability/tracing"
	"github.com/smallbiznis/loanhub/internal/offer/aggregator"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Aggregator *aggregator.Aggregator
	Log        *zap.Logger
	Cfg        config.Config
	Clock      clock.Clock
	Metrics    *metrics.OfferMetrics `optional:"true"`
}

type Service struct {
	aggregator *aggregator.Aggregator
	log        *zap.Logger
	cfg        config.Config
	clock      clock.Clock
	metrics    *metrics.OfferMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		aggregator: p.Aggregator,
		log:        p.Log.Named("offer.service"),
		cfg:        p.Cfg,
		clock:      p.Clock,
		metrics:    p.Metrics,
	}
}

// Search fans the query out to every registered provider and returns
// the quotes collected within the configured deadline, best first.
func (s *Service) Search(ctx context.Context, query domain.OfferQuery) (*domain.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer("loanhub/offers").Start(ctx, "offer.search")
	defer span.End()
	span.SetAttributes(tracing.SafeAttributes(
		attribute.String("query.amount", query.Amount.String()),
		attribute.Int("query.duration_months", query.DurationMonths),
	)...)

	started := s.clock.Now()
	offers, calls, err := s.aggregator.Aggregate(ctx, query, s.cfg.Offers.AggregationTimeout)
	if err != nil {
		return nil, err
	}
	elapsed := s.clock.Since(started)

	sortOffers(offers)
	s.record(ctx, calls, float64(elapsed.Milliseconds()))

	s.log.Debug("offer search completed",
		zap.Int("providers", len(calls)),
		zap.Int("offers", len(offers)),
		zap.Duration("elapsed", elapsed),
	)
	for _, call := range calls {
		if call.Status != domain.CallStatusOk {
			s.log.Warn("provider call did not complete",
				zap.String("provider", call.Provider),
				zap.String("status", string(call.Status)),
				zap.Duration("duration", call.Duration),
				zap.String("error", call.Error),
			)
		}
	}

	return &domain.SearchResult{Offers: offers, Calls: calls}, nil
}

// sortOffers orders quotes cheapest installment first with a stable
// tie-break so identical aggregations render identically.
func sortOffers(offers []domain.Offer) {
	sort.Slice(offers, func(i, j int) bool {
		if c := offers[i].MonthlyInstallment.Cmp(offers[j].MonthlyInstallment); c != 0 {
			return c < 0
		}
		if offers[i].Provider != offers[j].Provider {
			return offers[i].Provider < offers[j].Provider
		}
		return offers[i].OfferID < offers[j].OfferID
	})
}

func (s *Service) record(ctx context.Context, calls []domain.ProviderCallResult, durationMs float64) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordAggregation(ctx, durationMs, len(calls))
	for _, call := range calls {
		s.metrics.RecordProviderCall(ctx, call.Provider, string(call.Status))
	}
}

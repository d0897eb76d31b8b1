package aggregator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
	"go.uber.org/zap"
)

type staticRegistry struct {
	providers []domain.Provider
	err       error
}

func (r staticRegistry) Providers(ctx context.Context) ([]domain.Provider, error) {
	return r.providers, r.err
}

type fakeProvider struct {
	name   string
	delay  time.Duration
	offers []domain.Offer
	err    error
	panics bool
}

func (p fakeProvider) Name() string { return p.name }

func (p fakeProvider) Quote(ctx context.Context, query domain.OfferQuery) ([]domain.Offer, error) {
	if p.panics {
		panic("pricing model exploded")
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.offers, p.err
}

func quoteFor(provider string, id string) domain.Offer {
	return domain.Offer{
		Provider:           provider,
		OfferID:            id,
		MonthlyInstallment: decimal.RequireFromString("100.00"),
		AnnualRate:         decimal.RequireFromString("5.5"),
		TotalCost:          decimal.RequireFromString("1200.00"),
		ValidUntil:         time.Now().Add(24 * time.Hour),
	}
}

func newTestAggregator(reg domain.Registry) *Aggregator {
	return New(Params{
		Registry: reg,
		Clock:    clock.SystemClock{},
		Log:      zap.NewNop(),
	})
}

func testQuery() domain.OfferQuery {
	return domain.OfferQuery{Amount: decimal.NewFromInt(1000), DurationMonths: 12}
}

func callByProvider(calls []domain.ProviderCallResult, name string) *domain.ProviderCallResult {
	for i := range calls {
		if calls[i].Provider == name {
			return &calls[i]
		}
	}
	return nil
}

func TestAggregateAllProvidersSucceed(t *testing.T) {
	reg := staticRegistry{providers: []domain.Provider{
		fakeProvider{name: "alpha", offers: []domain.Offer{quoteFor("alpha", "a1"), quoteFor("alpha", "a2")}},
		fakeProvider{name: "beta", offers: []domain.Offer{quoteFor("beta", "b1")}},
	}}
	agg := newTestAggregator(reg)

	offers, calls, err := agg.Aggregate(context.Background(), testQuery(), time.Second)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(offers) != 3 {
		t.Fatalf("expected 3 offers, got %d", len(offers))
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(calls))
	}
	for _, call := range calls {
		if call.Status != domain.CallStatusOk {
			t.Fatalf("expected Ok for %s, got %s", call.Provider, call.Status)
		}
	}
}

func TestAggregateSlowProviderTimesOut(t *testing.T) {
	reg := staticRegistry{providers: []domain.Provider{
		fakeProvider{name: "fast", offers: []domain.Offer{quoteFor("fast", "f1")}},
		fakeProvider{name: "slow", delay: 2 * time.Second, offers: []domain.Offer{quoteFor("slow", "s1")}},
	}}
	agg := newTestAggregator(reg)

	deadline := 100 * time.Millisecond
	start := time.Now()
	offers, calls, err := agg.Aggregate(context.Background(), testQuery(), deadline)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("aggregation did not respect deadline, took %s", elapsed)
	}
	if len(offers) != 1 || offers[0].Provider != "fast" {
		t.Fatalf("expected only the fast provider's offer, got %+v", offers)
	}
	if len(calls) != 2 {
		t.Fatalf("expected diagnostics for both providers, got %d", len(calls))
	}
	slow := callByProvider(calls, "slow")
	if slow == nil || slow.Status != domain.CallStatusTimeoutOrCanceled {
		t.Fatalf("expected slow provider to time out, got %+v", slow)
	}
	if slow.Duration != deadline {
		t.Fatalf("expected timeout duration clamped to deadline, got %s", slow.Duration)
	}
	fast := callByProvider(calls, "fast")
	if fast == nil || fast.Status != domain.CallStatusOk {
		t.Fatalf("expected fast provider Ok, got %+v", fast)
	}
}

func TestAggregateProviderErrorIsIsolated(t *testing.T) {
	reg := staticRegistry{providers: []domain.Provider{
		fakeProvider{name: "broken", err: errors.New("connection refused")},
		fakeProvider{name: "healthy", offers: []domain.Offer{quoteFor("healthy", "h1")}},
	}}
	agg := newTestAggregator(reg)

	offers, calls, err := agg.Aggregate(context.Background(), testQuery(), time.Second)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(offers) != 1 || offers[0].Provider != "healthy" {
		t.Fatalf("expected only the healthy provider's offer, got %+v", offers)
	}
	broken := callByProvider(calls, "broken")
	if broken == nil || broken.Status != domain.CallStatusError {
		t.Fatalf("expected Error status, got %+v", broken)
	}
	if broken.Error == "" {
		t.Fatalf("expected non-empty error message")
	}
}

func TestAggregateProviderPanicBecomesDiagnostic(t *testing.T) {
	reg := staticRegistry{providers: []domain.Provider{
		fakeProvider{name: "panicky", panics: true},
		fakeProvider{name: "healthy", offers: []domain.Offer{quoteFor("healthy", "h1")}},
	}}
	agg := newTestAggregator(reg)

	offers, calls, err := agg.Aggregate(context.Background(), testQuery(), time.Second)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	panicky := callByProvider(calls, "panicky")
	if panicky == nil || panicky.Status != domain.CallStatusError {
		t.Fatalf("expected Error status for panicking provider, got %+v", panicky)
	}
	if !strings.Contains(panicky.Error, "panic") {
		t.Fatalf("expected panic message, got %q", panicky.Error)
	}
}

func TestAggregateDuplicateProviderNamesStayTotal(t *testing.T) {
	reg := staticRegistry{providers: []domain.Provider{
		fakeProvider{name: "NordPeak Bank", offers: []domain.Offer{quoteFor("NordPeak Bank", "n1")}},
		fakeProvider{name: "NordPeak Bank", offers: []domain.Offer{quoteFor("NordPeak Bank", "n2")}},
	}}
	agg := newTestAggregator(reg)

	deadline := 500 * time.Millisecond
	start := time.Now()
	offers, calls, err := agg.Aggregate(context.Background(), testQuery(), deadline)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= deadline {
		t.Fatalf("two instant providers should not burn the deadline, took %s", elapsed)
	}
	if len(offers) != 2 {
		t.Fatalf("expected both same-named providers' offers, got %d", len(offers))
	}
	if len(calls) != 2 {
		t.Fatalf("diagnostics not total: expected 2, got %d", len(calls))
	}
	for _, call := range calls {
		if call.Provider != "NordPeak Bank" || call.Status != domain.CallStatusOk {
			t.Fatalf("expected Ok diagnostic for NordPeak Bank, got %+v", call)
		}
	}
}

func TestAggregateNoProviders(t *testing.T) {
	agg := newTestAggregator(staticRegistry{})

	offers, calls, err := agg.Aggregate(context.Background(), testQuery(), time.Second)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(offers) != 0 || len(calls) != 0 {
		t.Fatalf("expected empty result, got %d offers %d calls", len(offers), len(calls))
	}
}

func TestAggregateRegistryErrorPropagates(t *testing.T) {
	agg := newTestAggregator(staticRegistry{err: errors.New("registry down")})

	if _, _, err := agg.Aggregate(context.Background(), testQuery(), time.Second); err == nil {
		t.Fatalf("expected registry error to propagate")
	}
}

func TestAggregateCancelledParentContext(t *testing.T) {
	reg := staticRegistry{providers: []domain.Provider{
		fakeProvider{name: "slow", delay: 2 * time.Second},
	}}
	agg := newTestAggregator(reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, calls, err := agg.Aggregate(ctx, testQuery(), time.Second)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(calls))
	}
	if calls[0].Status != domain.CallStatusTimeoutOrCanceled {
		t.Fatalf("expected TimeoutOrCanceled, got %s", calls[0].Status)
	}
}

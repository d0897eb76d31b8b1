// Package aggregator fans one query out to every registered provider
// and races the calls against a single overall deadline.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Registry domain.Registry
	Clock    clock.Clock
	Log      *zap.Logger
}

type Aggregator struct {
	registry domain.Registry
	clock    clock.Clock
	log      *zap.Logger
}

func New(p Params) *Aggregator {
	return &Aggregator{
		registry: p.Registry,
		clock:    p.Clock,
		log:      p.Log.Named("offer.aggregator"),
	}
}

// one provider call's terminal state, delivered exactly once. Slots are
// positional so two providers sharing a display name still yield two
// diagnostics.
type outcome struct {
	slot   int
	offers []domain.Offer
	result domain.ProviderCallResult
}

// Aggregate resolves the current providers, calls each concurrently and
// collects quotes until every call finishes or the deadline elapses.
//
// Diagnostics are total: every resolved provider yields exactly one
// ProviderCallResult. Quotes are partial: a slow or failing provider
// contributes none without affecting the others. Calls still in flight
// at the deadline are cancelled cooperatively; stragglers deliver into
// a buffered channel nobody reads and are dropped.
func (a *Aggregator) Aggregate(ctx context.Context, query domain.OfferQuery, deadline time.Duration) ([]domain.Offer, []domain.ProviderCallResult, error) {
	providers, err := a.registry.Providers(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(providers) == 0 {
		return []domain.Offer{}, []domain.ProviderCallResult{}, nil
	}

	callCtx, cancelCalls := context.WithCancel(ctx)
	defer cancelCalls()

	// Buffered so a provider finishing after the deadline never blocks:
	// its send succeeds and the outcome is simply never folded.
	results := make(chan outcome, len(providers))
	pending := make(map[int]struct{}, len(providers))
	for i, p := range providers {
		pending[i] = struct{}{}
		go a.call(callCtx, i, p, query, results)
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	offers := make([]domain.Offer, 0)
	calls := make([]domain.ProviderCallResult, 0, len(providers))
	started := a.clock.Now()
	remaining := len(providers)

	fold := func(out outcome) {
		if _, ok := pending[out.slot]; !ok {
			return
		}
		delete(pending, out.slot)
		remaining--
		offers = append(offers, out.offers...)
		calls = append(calls, out.result)
	}

	for remaining > 0 {
		select {
		case out := <-results:
			fold(out)
		case <-timer.C:
			cancelCalls()
			// A result racing the deadline wins the tie: scoop anything
			// already buffered before writing timeout diagnostics.
			a.drain(results, fold)
			for slot := range pending {
				calls = append(calls, domain.ProviderCallResult{
					Provider: providers[slot].Name(),
					Status:   domain.CallStatusTimeoutOrCanceled,
					Duration: deadline,
				})
			}
			return offers, calls, nil
		case <-ctx.Done():
			cancelCalls()
			a.drain(results, fold)
			elapsed := a.clock.Since(started)
			if elapsed > deadline {
				elapsed = deadline
			}
			for slot := range pending {
				calls = append(calls, domain.ProviderCallResult{
					Provider: providers[slot].Name(),
					Status:   domain.CallStatusTimeoutOrCanceled,
					Duration: elapsed,
				})
			}
			return offers, calls, nil
		}
	}
	return offers, calls, nil
}

func (a *Aggregator) drain(results <-chan outcome, fold func(outcome)) {
	for {
		select {
		case out := <-results:
			fold(out)
		default:
			return
		}
	}
}

// call runs one provider and always delivers exactly one outcome. A
// panic or error inside the provider becomes a diagnostic, never a
// fault of the aggregation.
func (a *Aggregator) call(ctx context.Context, slot int, p domain.Provider, query domain.OfferQuery, results chan<- outcome) {
	name := p.Name()
	started := a.clock.Now()
	out := outcome{slot: slot}

	func() {
		defer func() {
			if r := recover(); r != nil {
				out.offers = nil
				out.result = domain.ProviderCallResult{
					Provider: name,
					Status:   domain.CallStatusError,
					Duration: a.clock.Since(started),
					Error:    fmt.Sprintf("panic: %v", r),
				}
			}
		}()

		quotes, err := p.Quote(ctx, query)
		elapsed := a.clock.Since(started)
		if err != nil {
			status := domain.CallStatusError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = domain.CallStatusTimeoutOrCanceled
			}
			out.result = domain.ProviderCallResult{
				Provider: name,
				Status:   status,
				Duration: elapsed,
				Error:    err.Error(),
			}
			return
		}
		out.offers = quotes
		out.result = domain.ProviderCallResult{
			Provider: name,
			Status:   domain.CallStatusOk,
			Duration: elapsed,
		}
	}()

	results <- out
}

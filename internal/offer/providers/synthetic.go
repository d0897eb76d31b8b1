// Package providers contains the pricing provider implementations that
// back the marketplace: deterministic synthetic lenders and the
// remote-bank HTTP client.
package providers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
	"github.com/smallbiznis/loanhub/internal/offer/pricing"
)

const syntheticOfferValidity = 48 * time.Hour

// SyntheticProvider prices loans from a deterministic rate curve. It
// performs no I/O and serves as a stand-in lender and as the pricing
// conformance baseline.
type SyntheticProvider struct {
	name       string
	baseRate   decimal.Decimal
	minRate    decimal.Decimal
	largeBreak decimal.Decimal
	clock      clock.Clock
}

// NewSyntheticProvider builds a synthetic lender with the given base
// rate (percent) and volume-discount threshold.
func NewSyntheticProvider(name string, baseRate decimal.Decimal, largeBreak decimal.Decimal, clk clock.Clock) *SyntheticProvider {
	return &SyntheticProvider{
		name:       name,
		baseRate:   baseRate,
		minRate:    decimal.RequireFromString("1.5"),
		largeBreak: largeBreak,
		clock:      clk,
	}
}

func (p *SyntheticProvider) Name() string { return p.name }

func (p *SyntheticProvider) Quote(ctx context.Context, query domain.OfferQuery) ([]domain.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rate := p.rateFor(query)
	offers := []domain.Offer{p.offerAt(query, rate, "std")}

	// A documented financial profile with headroom unlocks a keener rate.
	if p.hasStrongProfile(query, offers[0].MonthlyInstallment) {
		preferred := rate.Sub(decimal.RequireFromString("0.8"))
		if preferred.Cmp(p.minRate) < 0 {
			preferred = p.minRate
		}
		offers = append(offers, p.offerAt(query, preferred, "pref"))
	}
	return offers, nil
}

func (p *SyntheticProvider) rateFor(query domain.OfferQuery) decimal.Decimal {
	rate := p.baseRate

	if query.Amount.Cmp(p.largeBreak) >= 0 {
		rate = rate.Sub(decimal.RequireFromString("0.5"))
	} else if query.Amount.Cmp(decimal.NewFromInt(5000)) < 0 {
		rate = rate.Add(decimal.RequireFromString("0.75"))
	}
	if query.DurationMonths > 60 {
		rate = rate.Add(decimal.RequireFromString("0.4"))
	}
	if query.Dependents != nil && *query.Dependents > 2 {
		rate = rate.Add(decimal.RequireFromString("0.25"))
	}

	if rate.Cmp(p.minRate) < 0 {
		rate = p.minRate
	}
	return rate.Round(4)
}

func (p *SyntheticProvider) hasStrongProfile(query domain.OfferQuery, installment decimal.Decimal) bool {
	if query.Income == nil || query.LivingCosts == nil {
		return false
	}
	disposable := query.Income.Sub(*query.LivingCosts)
	if query.Dependents != nil {
		disposable = disposable.Sub(decimal.NewFromInt(int64(*query.Dependents) * 400))
	}
	return disposable.Cmp(installment.Mul(decimal.NewFromInt(3))) >= 0
}

func (p *SyntheticProvider) offerAt(query domain.OfferQuery, rate decimal.Decimal, variant string) domain.Offer {
	installment := pricing.MonthlyInstallment(query.Amount, rate, query.DurationMonths)
	return domain.Offer{
		Provider:           p.name,
		OfferID:            syntheticOfferID(p.name, variant, query.Amount, rate, query.DurationMonths),
		MonthlyInstallment: installment,
		AnnualRate:         rate,
		TotalCost:          pricing.TotalCost(installment, query.DurationMonths),
		ValidUntil:         p.clock.Now().Add(syntheticOfferValidity),
	}
}

// syntheticOfferID derives a provider-unique id that is stable across
// identical inputs.
func syntheticOfferID(provider, variant string, amount, rate decimal.Decimal, months int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%s|%d", provider, variant, amount.String(), rate.String(), months))
	return "syn-" + hex.EncodeToString(sum[:6])
}

// DefaultSyntheticProviders returns the built-in lender set used when
// synthetic providers are enabled.
func DefaultSyntheticProviders(clk clock.Clock) []domain.Provider {
	return []domain.Provider{
		NewSyntheticProvider("NordPeak Bank", decimal.RequireFromString("6.4"), decimal.NewFromInt(20000), clk),
		NewSyntheticProvider("Aurora Credit", decimal.RequireFromString("7.9"), decimal.NewFromInt(15000), clk),
		NewSyntheticProvider("Velstand Finans", decimal.RequireFromString("5.6"), decimal.NewFromInt(30000), clk),
	}
}

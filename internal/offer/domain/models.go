// Package domain contains the offer search value objects and the
// provider capability contracts.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferQuery is the normalized search input. The same query is passed
// unmodified to every provider.
type OfferQuery struct {
	Amount         decimal.Decimal  `json:"amount"`
	DurationMonths int              `json:"duration_in_months"`
	Income         *decimal.Decimal `json:"income,omitempty"`
	LivingCosts    *decimal.Decimal `json:"living_costs,omitempty"`
	Dependents     *int             `json:"dependents,omitempty"`
}

// Validate checks the mandatory search parameters.
func (q OfferQuery) Validate() error {
	if q.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if q.DurationMonths <= 0 {
		return ErrInvalidDuration
	}
	if q.Income != nil && q.Income.Sign() < 0 {
		return ErrInvalidFinancials
	}
	if q.LivingCosts != nil && q.LivingCosts.Sign() < 0 {
		return ErrInvalidFinancials
	}
	if q.Dependents != nil && *q.Dependents < 0 {
		return ErrInvalidFinancials
	}
	return nil
}

// Offer is a single priced quote returned by one provider. Quotes are
// request-scoped and never persisted as-is.
type Offer struct {
	Provider           string          `json:"provider"`
	OfferID            string          `json:"offer_id"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	AnnualRate         decimal.Decimal `json:"annual_rate"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	ValidUntil         time.Time       `json:"valid_until"`
}

// OfferSnapshot freezes a quote together with the query parameters that
// produced it. Selections and applications only ever store snapshots.
type OfferSnapshot struct {
	Provider           string          `json:"provider"`
	OfferID            string          `json:"offer_id"`
	Amount             decimal.Decimal `json:"amount"`
	DurationMonths     int             `json:"duration_in_months"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	AnnualRate         decimal.Decimal `json:"annual_rate"`
	TotalCost          decimal.Decimal `json:"total_cost"`
	ValidUntil         time.Time       `json:"valid_until"`
}

// Snapshot freezes the given quote against its originating query.
func Snapshot(offer Offer, query OfferQuery) OfferSnapshot {
	return OfferSnapshot{
		Provider:           offer.Provider,
		OfferID:            offer.OfferID,
		Amount:             query.Amount,
		DurationMonths:     query.DurationMonths,
		MonthlyInstallment: offer.MonthlyInstallment,
		AnnualRate:         offer.AnnualRate,
		TotalCost:          offer.TotalCost,
		ValidUntil:         offer.ValidUntil,
	}
}

// CallStatus labels the outcome of one provider call.
type CallStatus string

const (
	CallStatusOk                CallStatus = "OK"
	CallStatusError             CallStatus = "ERROR"
	CallStatusTimeoutOrCanceled CallStatus = "TIMEOUT_OR_CANCELED"
)

// ProviderCallResult is the per-provider diagnostic record of one
// aggregation call. Observability only, never a business input.
type ProviderCallResult struct {
	Provider string        `json:"provider"`
	Status   CallStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

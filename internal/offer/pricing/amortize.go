// Package pricing implements the shared amortizing-loan math. Every
// provider prices through these functions so quotes stay comparable.
package pricing

import "github.com/shopspring/decimal"

var (
	one           = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyInstallment computes the fixed monthly payment for the given
// principal, annual rate (in percent) and term. Zero-rate loans divide
// the principal evenly. Result is rounded to 2 decimal places.
func MonthlyInstallment(principal decimal.Decimal, annualRatePercent decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if annualRatePercent.IsZero() {
		return principal.DivRound(n, 2)
	}

	// i = r/100/12, installment = P * i*(1+i)^n / ((1+i)^n - 1)
	i := annualRatePercent.Div(hundred).Div(monthsPerYear)
	compound := one.Add(i).Pow(n)
	return principal.Mul(i).Mul(compound).DivRound(compound.Sub(one), 2)
}

// TotalCost is the installment times the term, rounded to 2 decimals.
func TotalCost(installment decimal.Decimal, months int) decimal.Decimal {
	return installment.Mul(decimal.NewFromInt(int64(months))).Round(2)
}

// NormalizeAnnualRate converts upstream rates to percent form, rounded
// to 4 decimal places. Values at or below 1 are treated as fractions
// and scaled by 100; this misreads a genuine 0.8% sent as 0.8, which is
// kept for compatibility with existing integrations.
func NormalizeAnnualRate(rate decimal.Decimal) decimal.Decimal {
	if rate.Cmp(one) <= 0 {
		rate = rate.Mul(hundred)
	}
	return rate.Round(4)
}

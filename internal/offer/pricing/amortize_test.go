package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMonthlyInstallmentZeroRate(t *testing.T) {
	got := MonthlyInstallment(decimal.NewFromInt(1000), decimal.Zero, 10)
	if !got.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected 100.00, got %s", got)
	}
}

func TestMonthlyInstallmentMatchesTotalCost(t *testing.T) {
	principal := decimal.NewFromInt(10000)
	rate := decimal.RequireFromString("5.5")
	months := 36

	installment := MonthlyInstallment(principal, rate, months)
	if installment.Sign() <= 0 {
		t.Fatalf("expected positive installment, got %s", installment)
	}
	total := TotalCost(installment, months)
	if !total.Equal(installment.Mul(decimal.NewFromInt(int64(months))).Round(2)) {
		t.Fatalf("total cost %s does not equal installment*months", total)
	}
	// A positive rate always costs more than the principal.
	if total.Cmp(principal) <= 0 {
		t.Fatalf("expected total %s above principal %s", total, principal)
	}
}

func TestMonthlyInstallmentKnownValue(t *testing.T) {
	// 1000 at 12% over 12 months is the textbook 88.85 payment.
	got := MonthlyInstallment(decimal.NewFromInt(1000), decimal.NewFromInt(12), 12)
	if !got.Equal(decimal.RequireFromString("88.85")) {
		t.Fatalf("expected 88.85, got %s", got)
	}
}

func TestMonthlyInstallmentInvalidTerm(t *testing.T) {
	if got := MonthlyInstallment(decimal.NewFromInt(1000), decimal.NewFromInt(5), 0); !got.IsZero() {
		t.Fatalf("expected zero installment for zero term, got %s", got)
	}
}

func TestNormalizeAnnualRate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.05", "5"},
		{"1", "100"},
		{"5.25", "5.25"},
		{"0.125", "12.5"},
		{"7.123456", "7.1235"},
	}
	for _, tc := range cases {
		got := NormalizeAnnualRate(decimal.RequireFromString(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("NormalizeAnnualRate(%s): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

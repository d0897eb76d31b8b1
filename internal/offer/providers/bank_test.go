package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
)

func fixedClock() clock.Clock {
	return clock.Fixed{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func bankQuery() domain.OfferQuery {
	income := decimal.NewFromInt(4500)
	return domain.OfferQuery{
		Amount:         decimal.NewFromInt(10000),
		DurationMonths: 24,
		Income:         &income,
	}
}

func TestRemoteBankProviderQuote(t *testing.T) {
	var gotAPIKey, gotAmount, gotDuration, gotIncome string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotAmount = r.URL.Query().Get("amount")
		gotDuration = r.URL.Query().Get("durationInMonths")
		gotIncome = r.URL.Query().Get("income")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"offers": [
			{"id": "of-1", "amount": 10000, "interestRate": 0.055, "durationInMonths": 24},
			{"id": "of-2", "amount": 10000, "interestRate": 6.2, "durationInMonths": 36},
			{"id": "of-3", "amount": 10000, "interestRate": 7.0, "durationInMonths": 24, "isActive": false}
		]}`))
	}))
	defer srv.Close()

	p := NewRemoteBankProvider(BankDescriptor{Name: "TestBank", BaseURL: srv.URL, APIKey: "sekrit"}, srv.Client(), fixedClock())
	offers, err := p.Quote(context.Background(), bankQuery())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}

	if gotAPIKey != "sekrit" {
		t.Fatalf("expected api key header, got %q", gotAPIKey)
	}
	if gotAmount != "10000" || gotDuration != "24" || gotIncome != "4500" {
		t.Fatalf("unexpected query params amount=%q duration=%q income=%q", gotAmount, gotDuration, gotIncome)
	}

	// of-2 filtered by duration, of-3 filtered by the active flag.
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	offer := offers[0]
	if offer.OfferID != "of-1" || offer.Provider != "TestBank" {
		t.Fatalf("unexpected offer identity %+v", offer)
	}
	// 0.055 is a fraction and normalizes to 5.5 percent.
	if !offer.AnnualRate.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("expected normalized rate 5.5, got %s", offer.AnnualRate)
	}
	if !offer.MonthlyInstallment.Equal(decimal.RequireFromString("440.96")) {
		t.Fatalf("expected installment 440.96, got %s", offer.MonthlyInstallment)
	}
	if !offer.TotalCost.Equal(offer.MonthlyInstallment.Mul(decimal.NewFromInt(24)).Round(2)) {
		t.Fatalf("total cost %s inconsistent with installment", offer.TotalCost)
	}
}

func TestRemoteBankProviderDerivesStableIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"amount": 10000, "interestRate": 5.5, "durationInMonths": 24}]`))
	}))
	defer srv.Close()

	p := NewRemoteBankProvider(BankDescriptor{Name: "TestBank", BaseURL: srv.URL}, srv.Client(), fixedClock())

	first, err := p.Quote(context.Background(), bankQuery())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	second, err := p.Quote(context.Background(), bankQuery())
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 offer per call")
	}
	if first[0].OfferID == "" || first[0].OfferID != second[0].OfferID {
		t.Fatalf("expected stable derived id, got %q and %q", first[0].OfferID, second[0].OfferID)
	}
}

func TestRemoteBankProviderNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewRemoteBankProvider(BankDescriptor{Name: "TestBank", BaseURL: srv.URL}, srv.Client(), fixedClock())
	if _, err := p.Quote(context.Background(), bankQuery()); err == nil {
		t.Fatalf("expected error for non-success status")
	}
}

func TestRemoteBankProviderUnparseablePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>definitely not json</html>`))
	}))
	defer srv.Close()

	p := NewRemoteBankProvider(BankDescriptor{Name: "TestBank", BaseURL: srv.URL}, srv.Client(), fixedClock())
	if _, err := p.Quote(context.Background(), bankQuery()); err == nil {
		t.Fatalf("expected hard failure for unparseable payload")
	}
}

func TestRemoteBankProviderHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewRemoteBankProvider(BankDescriptor{Name: "TestBank", BaseURL: srv.URL}, srv.Client(), fixedClock())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := p.Quote(ctx, bankQuery()); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

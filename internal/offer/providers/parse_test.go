package providers

import (
	"testing"
)

func TestParseBankOffersBareArray(t *testing.T) {
	payload := []byte(`[
		{"id": "abc", "amount": 10000, "interestRate": 5.5, "durationInMonths": 24},
		{"id": 42, "amount": 10000, "interestRate": 6.1, "durationInMonths": 24, "isActive": true}
	]`)
	offers, err := parseBankOffers(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if offers[0].ID != "abc" {
		t.Fatalf("expected string id, got %q", offers[0].ID)
	}
	if offers[1].ID != "42" {
		t.Fatalf("expected numeric id normalized to string, got %q", offers[1].ID)
	}
}

func TestParseBankOffersWrappedArray(t *testing.T) {
	for _, key := range []string{"offers", "items", "data", "result", "results", "loanOffers"} {
		payload := []byte(`{"` + key + `": [{"amount": 5000, "interestRate": 0.07, "durationInMonths": 12}]}`)
		offers, err := parseBankOffers(payload)
		if err != nil {
			t.Fatalf("parse wrapped under %q: %v", key, err)
		}
		if len(offers) != 1 {
			t.Fatalf("expected 1 offer under %q, got %d", key, len(offers))
		}
	}
}

func TestParseBankOffersSingleObject(t *testing.T) {
	payload := []byte(`{"id": null, "amount": 5000, "interestRate": 4.4, "durationInMonths": 12}`)
	offers, err := parseBankOffers(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	if offers[0].ID != "" {
		t.Fatalf("expected empty id for null, got %q", offers[0].ID)
	}
}

func TestParseBankOffersRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("   "),
		[]byte(`"just a string"`),
		[]byte(`{"unrelated": true}`),
		[]byte(`{"offers": [{"amount": 0, "durationInMonths": 12}]}`),
		[]byte(`[{"amount": 5000}]`),
		[]byte(`not json at all`),
	}
	for _, payload := range cases {
		if _, err := parseBankOffers(payload); err == nil {
			t.Fatalf("expected error for payload %q", payload)
		}
	}
}

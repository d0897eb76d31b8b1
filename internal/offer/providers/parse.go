package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnexpectedPayload marks a bank response whose shape could not be
// recognized. The whole call fails; there are no partial parses.
var ErrUnexpectedPayload = errors.New("unexpected_bank_payload")

// Wrapper property names banks have been observed to nest their offer
// arrays under.
var offerWrapperKeys = []string{"offers", "items", "data", "result", "results", "loanOffers"}

type bankOffer struct {
	ID               string
	Amount           decimal.Decimal
	InterestRate     decimal.Decimal
	DurationInMonths int
	IsActive         *bool
}

type bankOfferWire struct {
	ID               json.RawMessage `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	DurationInMonths int             `json:"durationInMonths"`
	IsActive         *bool           `json:"isActive"`
}

// parseBankOffers normalizes a bank response into a flat offer list.
// The payload may be a bare array, an object wrapping the array under
// one of several property names, or a single offer object.
func parseBankOffers(data []byte) ([]bankOffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedPayload
	}

	if trimmed[0] == '[' {
		return parseOfferArray(trimmed)
	}
	if trimmed[0] != '{' {
		return nil, ErrUnexpectedPayload
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, ErrUnexpectedPayload
	}
	for _, key := range offerWrapperKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		inner := bytes.TrimSpace(raw)
		if len(inner) == 0 {
			continue
		}
		switch inner[0] {
		case '[':
			return parseOfferArray(inner)
		case '{':
			return parseSingleOffer(inner)
		}
	}

	// No wrapper matched: the object itself may be a single offer.
	return parseSingleOffer(trimmed)
}

func parseOfferArray(data []byte) ([]bankOffer, error) {
	var wires []bankOfferWire
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, ErrUnexpectedPayload
	}
	offers := make([]bankOffer, 0, len(wires))
	for _, wire := range wires {
		offer, err := wire.normalize()
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func parseSingleOffer(data []byte) ([]bankOffer, error) {
	var wire bankOfferWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, ErrUnexpectedPayload
	}
	offer, err := wire.normalize()
	if err != nil {
		return nil, err
	}
	return []bankOffer{offer}, nil
}

func (w bankOfferWire) normalize() (bankOffer, error) {
	if w.DurationInMonths <= 0 || w.Amount.Sign() <= 0 {
		return bankOffer{}, ErrUnexpectedPayload
	}
	id, err := parseOfferIdentifier(w.ID)
	if err != nil {
		return bankOffer{}, err
	}
	return bankOffer{
		ID:               id,
		Amount:           w.Amount,
		InterestRate:     w.InterestRate,
		DurationInMonths: w.DurationInMonths,
		IsActive:         w.IsActive,
	}, nil
}

// parseOfferIdentifier accepts string or numeric ids; absent and null
// ids yield "" so the caller can derive one.
func parseOfferIdentifier(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", ErrUnexpectedPayload
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return "", ErrUnexpectedPayload
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

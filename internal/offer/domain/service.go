package domain

import (
	"context"
	"errors"
)

// SearchResult is the union of all quotes received in time plus one
// diagnostic per resolved provider.
type SearchResult struct {
	Offers []Offer              `json:"offers"`
	Calls  []ProviderCallResult `json:"calls"`
}

type Service interface {
	Search(ctx context.Context, query OfferQuery) (*SearchResult, error)
}

var (
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidDuration   = errors.New("invalid_duration")
	ErrInvalidFinancials = errors.New("invalid_financials")
)

package domain

import "context"

// Provider produces quotes for a query. Implementations must be safe to
// cancel mid-flight; a provider that ignores cancellation simply has its
// late result discarded by the aggregator.
type Provider interface {
	Name() string
	Quote(ctx context.Context, query OfferQuery) ([]Offer, error)
}

// Registry resolves the current provider set. It is re-resolved on every
// aggregation call so integration changes take effect immediately; an
// empty set is a valid resolution.
type Registry interface {
	Providers(ctx context.Context) ([]Provider, error)
}

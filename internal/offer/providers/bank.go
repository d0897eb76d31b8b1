package providers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
	"github.com/smallbiznis/loanhub/internal/offer/pricing"
)

const (
	apiKeyHeader      = "X-Api-Key"
	bankOfferValidity = 24 * time.Hour
	maxBankResponse   = 1 << 20
)

// BankDescriptor is the dynamically configured binding for one remote
// bank endpoint.
type BankDescriptor struct {
	Name    string
	BaseURL string
	APIKey  string
}

// RemoteBankProvider quotes loans by calling an external bank endpoint
// over HTTP. Any unparseable or non-success response is a hard failure
// for the call; the aggregator turns it into a diagnostic.
type RemoteBankProvider struct {
	desc   BankDescriptor
	client *http.Client
	clock  clock.Clock
}

func NewRemoteBankProvider(desc BankDescriptor, client *http.Client, clk clock.Clock) *RemoteBankProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteBankProvider{desc: desc, client: client, clock: clk}
}

func (p *RemoteBankProvider) Name() string { return p.desc.Name }

func (p *RemoteBankProvider) Quote(ctx context.Context, query domain.OfferQuery) ([]domain.Offer, error) {
	endpoint, err := p.buildURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.desc.APIKey != "" {
		req.Header.Set(apiKeyHeader, p.desc.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bank %s: %w", p.desc.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("bank %s: unexpected status %d", p.desc.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBankResponse))
	if err != nil {
		return nil, fmt.Errorf("bank %s: read response: %w", p.desc.Name, err)
	}

	items, err := parseBankOffers(body)
	if err != nil {
		return nil, fmt.Errorf("bank %s: %w", p.desc.Name, err)
	}

	offers := make([]domain.Offer, 0, len(items))
	for _, item := range items {
		if item.DurationInMonths != query.DurationMonths {
			continue
		}
		if item.IsActive != nil && !*item.IsActive {
			continue
		}
		offers = append(offers, p.toOffer(item))
	}
	return offers, nil
}

func (p *RemoteBankProvider) buildURL(query domain.OfferQuery) (string, error) {
	parsed, err := url.Parse(p.desc.BaseURL)
	if err != nil {
		return "", fmt.Errorf("bank %s: invalid base url: %w", p.desc.Name, err)
	}

	values := parsed.Query()
	values.Set("amount", query.Amount.String())
	values.Set("durationInMonths", strconv.Itoa(query.DurationMonths))
	if query.Income != nil {
		values.Set("income", query.Income.String())
	}
	if query.LivingCosts != nil {
		values.Set("livingCosts", query.LivingCosts.String())
	}
	if query.Dependents != nil {
		values.Set("dependents", strconv.Itoa(*query.Dependents))
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func (p *RemoteBankProvider) toOffer(item bankOffer) domain.Offer {
	rate := pricing.NormalizeAnnualRate(item.InterestRate)
	installment := pricing.MonthlyInstallment(item.Amount, rate, item.DurationInMonths)

	id := item.ID
	if id == "" {
		id = p.deriveOfferID(item.Amount, rate, item.DurationInMonths)
	}

	return domain.Offer{
		Provider:           p.desc.Name,
		OfferID:            id,
		MonthlyInstallment: installment,
		AnnualRate:         rate,
		TotalCost:          pricing.TotalCost(installment, item.DurationInMonths),
		ValidUntil:         p.clock.Now().Add(bankOfferValidity),
	}
}

// deriveOfferID synthesizes a stable id when the upstream payload has
// none: identical inputs must map to identical ids.
func (p *RemoteBankProvider) deriveOfferID(amount, rate decimal.Decimal, months int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%d", p.desc.Name, amount.String(), rate.String(), months))
	return "gen-" + hex.EncodeToString(sum[:6])
}

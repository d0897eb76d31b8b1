// Package registry resolves the active provider set from configuration
// and the bank integration table.
package registry

import (
	"context"
	"net/http"
	"strings"

	bankdomain "github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/config"
	"github.com/smallbiznis/loanhub/internal/observability/tracing"
	"github.com/smallbiznis/loanhub/internal/offer/domain"
	"github.com/smallbiznis/loanhub/internal/offer/providers"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
}

type Registry struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	static []domain.Provider
	client *http.Client
}

func New(p Params) domain.Registry {
	var static []domain.Provider
	if p.Cfg.Offers.SyntheticProviders {
		static = providers.DefaultSyntheticProviders(p.Clock)
	}
	return &Registry{
		db:     p.DB,
		log:    p.Log.Named("offer.registry"),
		clock:  p.Clock,
		static: static,
		client: tracing.WrapHTTPClient(&http.Client{Timeout: p.Cfg.Offers.BankClientTimeout}),
	}
}

// Providers re-resolves the provider set on every call so integration
// changes take effect without a restart. Duplicate display names
// collapse to the earliest-created integration.
func (r *Registry) Providers(ctx context.Context) ([]domain.Provider, error) {
	var rows []bankdomain.BankIntegration
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.Provider, 0, len(r.static)+len(rows))
	resolved = append(resolved, r.static...)

	// Static providers claim their names first so a bank integration
	// cannot shadow one.
	seen := make(map[string]struct{}, len(r.static)+len(rows))
	for _, p := range r.static {
		seen[strings.ToLower(p.Name())] = struct{}{}
	}
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			r.log.Debug("duplicate bank integration name skipped", zap.String("name", name))
			continue
		}
		seen[key] = struct{}{}

		desc := providers.BankDescriptor{Name: name, BaseURL: row.BaseURL}
		if row.APIKey != nil {
			desc.APIKey = *row.APIKey
		}
		resolved = append(resolved, providers.NewRemoteBankProvider(desc, r.client, r.clock))
	}
	return resolved, nil
}

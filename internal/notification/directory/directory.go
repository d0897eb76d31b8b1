// Package directory resolves provider contact addresses from the bank
// integration records.
package directory

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/loanhub/internal/cache"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const lookupTTL = 5 * time.Minute

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

// Directory looks up provider emails in bank_integrations and caches
// both hits and misses for a short interval.
type Directory struct {
	db    *gorm.DB
	log   *zap.Logger
	cache *cache.TTLCache[string, string]
}

func New(p Params) domain.ContactDirectory {
	return &Directory{
		db:    p.DB,
		log:   p.Log.Named("notification.directory"),
		cache: cache.NewTTLCache[string, string](p.Clock),
	}
}

func (d *Directory) ProviderEmail(ctx context.Context, providerName string) (string, bool, error) {
	key := strings.ToLower(strings.TrimSpace(providerName))
	if key == "" {
		return "", false, nil
	}
	if email, ok := d.cache.Get(key); ok {
		return email, email != "", nil
	}

	var row struct {
		ContactEmail *string
	}
	err := d.db.WithContext(ctx).
		Raw(`SELECT contact_email
		     FROM bank_integrations
		     WHERE LOWER(TRIM(name)) = ? AND is_active = ?
		     ORDER BY created_at ASC
		     LIMIT 1`, key, true).
		Scan(&row).Error
	if err != nil {
		return "", false, err
	}

	email := ""
	if row.ContactEmail != nil {
		email = strings.TrimSpace(*row.ContactEmail)
	}
	d.cache.Set(key, email, lookupTTL)
	if email == "" {
		d.log.Debug("provider has no contact email", zap.String("provider", providerName))
		return "", false, nil
	}
	return email, true, nil
}

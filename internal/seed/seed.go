// Package seed bootstraps demo data for non-production environments.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	bankdomain "github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"gorm.io/gorm"
)

const (
	demoBankName    = "Demo Bank"
	demoBankBaseURL = "https://demo-bank.loanhub.local/quotes"
	demoBankContact = "loans@demo-bank.loanhub.local"
)

// EnsureDemoBank seeds one inactive demo bank integration so the
// admin API has something to show on a fresh install. It never
// touches an existing row.
func EnsureDemoBank(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing bankdomain.BankIntegration
		err := tx.Where("name = ?", demoBankName).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		contact := demoBankContact
		return tx.Create(&bankdomain.BankIntegration{
			ID:           node.Generate(),
			Name:         demoBankName,
			BaseURL:      demoBankBaseURL,
			ContactEmail: &contact,
			IsActive:     false,
		}).Error
	})
}

// Package domain holds the admin-configured remote bank bindings.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BankIntegration is one configured remote lender endpoint. Active
// integrations are resolved into providers on every aggregation call.
type BankIntegration struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	BaseURL      string       `gorm:"type:text;not null" json:"base_url"`
	APIKey       *string      `gorm:"type:text" json:"-"`
	ContactEmail *string      `gorm:"type:text" json:"contact_email,omitempty"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BankIntegration) TableName() string { return "bank_integrations" }

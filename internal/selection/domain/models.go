// Package domain holds the offer selection aggregate, the step
// between searching and applying.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
)

// OfferSelection is a user's chosen quote. The selected snapshot is
// immutable; a recalculation freezes a second snapshot next to it and
// applying stamps the selection with the created application exactly
// once.
type OfferSelection struct {
	ID                snowflake.ID               `gorm:"primaryKey" json:"id"`
	InquiryID         string                     `gorm:"type:text;not null;index" json:"inquiry_id"`
	SelectedOffer     offerdomain.OfferSnapshot  `gorm:"serializer:json;not null" json:"selected_offer"`
	RecalculatedOffer *offerdomain.OfferSnapshot `gorm:"serializer:json" json:"recalculated_offer,omitempty"`
	Income            *decimal.Decimal           `gorm:"type:numeric" json:"income,omitempty"`
	LivingCosts       *decimal.Decimal           `gorm:"type:numeric" json:"living_costs,omitempty"`
	Dependents        *int                       `json:"dependents,omitempty"`
	ApplicationID     *snowflake.ID              `gorm:"index" json:"application_id,omitempty"`
	AppliedAt         *time.Time                 `json:"applied_at,omitempty"`
	CreatedAt         time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (OfferSelection) TableName() string { return "offer_selections" }

// Applied reports whether the selection already produced an
// application.
func (s *OfferSelection) Applied() bool {
	return s.ApplicationID != nil
}

// BestOffer returns the recalculated snapshot when present, otherwise
// the originally selected one.
func (s *OfferSelection) BestOffer() offerdomain.OfferSnapshot {
	if s.RecalculatedOffer != nil {
		return *s.RecalculatedOffer
	}
	return s.SelectedOffer
}

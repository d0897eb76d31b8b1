package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
)

var (
	ErrInvalidID         = errors.New("invalid_selection_id")
	ErrNotFound          = errors.New("selection_not_found")
	ErrInvalidInquiry    = errors.New("invalid_inquiry_id")
	ErrInvalidOffer      = errors.New("invalid_offer_snapshot")
	ErrPartialFinancials = errors.New("partial_financials")
	ErrInvalidFinancials = errors.New("invalid_financials")
	ErrAlreadyApplied    = errors.New("already_applied")
	ErrProviderNotFound  = errors.New("provider_not_found")
	ErrNoOffersReturned  = errors.New("no_offers_returned")
)

// CreateRequest stores one chosen quote. Income, living costs and
// dependents are captured together or not at all.
type CreateRequest struct {
	InquiryID   string
	Offer       offerdomain.OfferSnapshot
	Income      *decimal.Decimal
	LivingCosts *decimal.Decimal
	Dependents  *int
}

// RecalculateRequest re-prices the selection against its original
// provider with a refined financial profile.
type RecalculateRequest struct {
	Income      decimal.Decimal
	LivingCosts decimal.Decimal
	Dependents  int
}

// ApplyRequest turns the selection into a loan application.
type ApplyRequest struct {
	UserID         *snowflake.ID
	ApplicantEmail string
	Applicant      appdomain.ApplicantDetails
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*OfferSelection, error)
	GetByID(ctx context.Context, id snowflake.ID) (*OfferSelection, error)
	Recalculate(ctx context.Context, id snowflake.ID, req RecalculateRequest) (*OfferSelection, error)
	Apply(ctx context.Context, id snowflake.ID, req ApplyRequest) (*OfferSelection, error)
}

// ParseID parses a path or query selection id.
func ParseID(raw string) (snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

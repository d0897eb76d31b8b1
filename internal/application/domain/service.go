package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
)

var (
	ErrInvalidID         = errors.New("invalid_application_id")
	ErrNotFound          = errors.New("application_not_found")
	ErrInvalidEmail      = errors.New("invalid_applicant_email")
	ErrInvalidApplicant  = errors.New("invalid_applicant_details")
	ErrInvalidOffer      = errors.New("invalid_offer_snapshot")
	ErrAlreadyCancelled  = errors.New("already_cancelled")
	ErrCancelNotAllowed  = errors.New("cancel_not_allowed")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrReasonRequired    = errors.New("reason_required")
	ErrConcurrentUpdate  = errors.New("concurrent_update")
)

// CreateRequest carries everything needed to open an application.
type CreateRequest struct {
	UserID         *snowflake.ID
	ApplicantEmail string
	Applicant      ApplicantDetails
	Offer          offerdomain.OfferSnapshot
}

// ListRecentFilter narrows ListRecent to one applicant's recent
// applications. WithinDays defaults to 30 when zero.
type ListRecentFilter struct {
	ApplicantEmail string
	Status         *Status
	WithinDays     int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*LoanApplication, error)
	GetByID(ctx context.Context, id snowflake.ID) (*LoanApplication, error)
	Cancel(ctx context.Context, id snowflake.ID) (*LoanApplication, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, to Status, reason *string) (*LoanApplication, error)
	ListRecent(ctx context.Context, filter ListRecentFilter) ([]*LoanApplication, error)
}

// ParseID parses a path or query application id.
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

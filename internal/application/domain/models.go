// Package domain holds the loan application aggregate and its
// lifecycle contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
)

// ApplicantDetails is the personal data captured when an application
// is submitted.
type ApplicantDetails struct {
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Age              int              `json:"age"`
	JobTitle         string           `json:"job_title"`
	Address          string           `json:"address"`
	IDDocumentNumber string           `json:"id_document_number"`
	Phone            *string          `json:"phone,omitempty"`
	DateOfBirth      *time.Time       `json:"date_of_birth,omitempty"`
	Income           *decimal.Decimal `json:"income,omitempty"`
	LivingCosts      *decimal.Decimal `json:"living_costs,omitempty"`
	Dependents       *int             `json:"dependents,omitempty"`
}

// StatusChange is one entry in the append-only status history.
type StatusChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
	Reason    *string   `json:"reason,omitempty"`
}

// StatusHistory is the ordered log of every status the application
// has held. It only ever grows.
type StatusHistory []StatusChange

// LoanApplication is the durable record of one submitted loan
// request. The offer snapshot is frozen at creation and never
// mutated; state only moves along the transition graph.
type LoanApplication struct {
	ID                       snowflake.ID              `gorm:"primaryKey" json:"id"`
	UserID                   *snowflake.ID             `gorm:"index" json:"user_id,omitempty"`
	ApplicantEmail           string                    `gorm:"type:text;not null;index" json:"applicant_email"`
	Applicant                ApplicantDetails          `gorm:"serializer:json;not null" json:"applicant"`
	Offer                    offerdomain.OfferSnapshot `gorm:"serializer:json;not null" json:"offer"`
	Status                   Status                    `gorm:"type:text;not null;index" json:"status"`
	RejectReason             *string                   `gorm:"type:text" json:"reject_reason,omitempty"`
	ContractReadyAt          *time.Time                `json:"contract_ready_at,omitempty"`
	SignedContractReceivedAt *time.Time                `json:"signed_contract_received_at,omitempty"`
	FinalApprovedAt          *time.Time                `json:"final_approved_at,omitempty"`
	StatusHistory            StatusHistory             `gorm:"serializer:json;not null" json:"status_history"`
	CreatedAt                time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt                time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (LoanApplication) TableName() string { return "loan_applications" }

// RecordStatus appends one history entry and moves the application to
// the given status. It is the only way status history grows.
func (a *LoanApplication) RecordStatus(status Status, at time.Time, reason *string) {
	a.Status = status
	a.StatusHistory = append(a.StatusHistory, StatusChange{
		Status:    status,
		ChangedAt: at,
		Reason:    reason,
	})
}

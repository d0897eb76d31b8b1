package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/loanhub/internal/application/domain"
	auditdomain "github.com/smallbiznis/loanhub/internal/audit/domain"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/events"
	notifdomain "github.com/smallbiznis/loanhub/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRecentWindowDays = 30

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Outbox    *events.Outbox
	Audit     auditdomain.Service
	Sender    notifdomain.Sender
	Directory notifdomain.ContactDirectory
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	outbox    *events.Outbox
	audit     auditdomain.Service
	sender    notifdomain.Sender
	directory notifdomain.ContactDirectory
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("application.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		outbox:    p.Outbox,
		audit:     p.Audit,
		sender:    p.Sender,
		directory: p.Directory,
	}
}

// Create opens a new application in status NEW with a single history
// entry, then notifies the applicant and, when a contact address
// resolves, the provider. Notification failures never fail creation.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.LoanApplication, error) {
	email := strings.ToLower(strings.TrimSpace(req.ApplicantEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if err := validateApplicant(req.Applicant); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Offer.Provider) == "" || strings.TrimSpace(req.Offer.OfferID) == "" {
		return nil, domain.ErrInvalidOffer
	}

	now := s.clock.Now()
	app := &domain.LoanApplication{
		ID:             s.genID.Generate(),
		UserID:         req.UserID,
		ApplicantEmail: email,
		Applicant:      req.Applicant,
		Offer:          req.Offer,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	app.RecordStatus(domain.StatusNew, now, nil)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventApplicationCreated,
			Payload: events.ApplicationCreatedPayload{
				ApplicationID: app.ID.String(),
				Provider:      app.Offer.Provider,
				OfferID:       app.Offer.OfferID,
			}.ToMap(),
			DedupeKey: "application.created:" + app.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "application.created", app.ID, map[string]any{
		"provider": app.Offer.Provider,
		"offer_id": app.Offer.OfferID,
	})
	s.notify(ctx, applicantCreatedEmail(app))
	s.notifyProvider(ctx, app)

	return app, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.LoanApplication, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	var app domain.LoanApplication
	err := s.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Cancel moves the application to CANCELLED. Only NEW and
// PRELIMINARILY_ACCEPTED applications may be cancelled; a repeated
// cancel and a disallowed cancel report distinct outcomes.
func (s *Service) Cancel(ctx context.Context, id snowflake.ID) (*domain.LoanApplication, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case app.Status == domain.StatusCancelled:
		return nil, domain.ErrAlreadyCancelled
	case app.Status != domain.StatusNew && app.Status != domain.StatusPreliminarilyAccepted:
		return nil, domain.ErrCancelNotAllowed
	}

	from := app.Status
	now := s.clock.Now()
	app.RecordStatus(domain.StatusCancelled, now, nil)
	app.UpdatedAt = now

	if err := s.persistTransition(ctx, app, from); err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, app, from, nil, events.EventApplicationCancelled)
	s.recordAudit(ctx, "application.cancelled", app.ID, map[string]any{
		"from_status": string(from),
	})
	return app, nil
}

// UpdateStatus advances the application along the transition graph.
// A reason is required for REJECTED and recorded on the entity.
func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, to domain.Status, reason *string) (*domain.LoanApplication, error) {
	if !to.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition
	}
	trimmed := trimReason(reason)
	if to == domain.StatusRejected && trimmed == nil {
		return nil, domain.ErrReasonRequired
	}

	from := app.Status
	now := s.clock.Now()
	app.RecordStatus(to, now, trimmed)
	app.UpdatedAt = now

	switch to {
	case domain.StatusRejected:
		app.RejectReason = trimmed
	case domain.StatusContractReady:
		app.ContractReadyAt = &now
	case domain.StatusSignedContractReceived:
		app.SignedContractReceivedAt = &now
	case domain.StatusFinalApproved:
		app.FinalApprovedAt = &now
	}

	if err := s.persistTransition(ctx, app, from); err != nil {
		return nil, err
	}

	s.publishStatusChange(ctx, app, from, trimmed, events.EventApplicationStatusChanged)
	s.recordAudit(ctx, "application.status_changed", app.ID, map[string]any{
		"from_status": string(from),
		"to_status":   string(to),
	})
	if to == domain.StatusRejected || to == domain.StatusGranted {
		s.notify(ctx, applicantStatusEmail(app, trimmed))
	}
	return app, nil
}

// ListRecent returns one applicant's applications created inside the
// day window, newest first, optionally narrowed to one status.
func (s *Service) ListRecent(ctx context.Context, filter domain.ListRecentFilter) ([]*domain.LoanApplication, error) {
	email := strings.ToLower(strings.TrimSpace(filter.ApplicantEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	days := filter.WithinDays
	if days <= 0 {
		days = defaultRecentWindowDays
	}
	since := s.clock.Now().AddDate(0, 0, -days)

	q := s.db.WithContext(ctx).
		Where("applicant_email = ?", email).
		Where("created_at >= ?", since)
	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		q = q.Where("status = ?", *filter.Status)
	}

	var apps []*domain.LoanApplication
	if err := q.Order("created_at DESC, id DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// persistTransition writes the mutated application guarded by its
// previous status so concurrent transitions cannot both land.
func (s *Service) persistTransition(ctx context.Context, app *domain.LoanApplication, from domain.Status) error {
	res := s.db.WithContext(ctx).
		Model(&domain.LoanApplication{}).
		Where("id = ? AND status = ?", app.ID, from).
		Updates(domain.LoanApplication{
			Status:                   app.Status,
			RejectReason:             app.RejectReason,
			ContractReadyAt:          app.ContractReadyAt,
			SignedContractReceivedAt: app.SignedContractReceivedAt,
			FinalApprovedAt:          app.FinalApprovedAt,
			StatusHistory:            app.StatusHistory,
			UpdatedAt:                app.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentUpdate
	}
	return nil
}

func (s *Service) publishStatusChange(ctx context.Context, app *domain.LoanApplication, from domain.Status, reason *string, eventType string) {
	payload := events.ApplicationStatusChangedPayload{
		ApplicationID: app.ID.String(),
		FromStatus:    string(from),
		ToStatus:      string(app.Status),
	}
	if reason != nil {
		payload.Reason = *reason
	}
	err := s.outbox.Publish(ctx, events.Event{
		Type:      eventType,
		Payload:   payload.ToMap(),
		DedupeKey: eventType + ":" + app.ID.String() + ":" + string(app.Status),
	})
	if err != nil {
		s.log.Warn("failed to publish status event",
			zap.String("application_id", app.ID.String()),
			zap.String("to_status", string(app.Status)),
			zap.Error(err),
		)
	}
}

func (s *Service) recordAudit(ctx context.Context, action string, id snowflake.ID, metadata map[string]any) {
	err := s.audit.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: "loan_application",
		TargetID:   id.String(),
		Metadata:   metadata,
	})
	if err != nil {
		s.log.Warn("failed to record audit entry",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func (s *Service) notify(ctx context.Context, msg notifdomain.EmailMessage) {
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Warn("notification failed",
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
}

func (s *Service) notifyProvider(ctx context.Context, app *domain.LoanApplication) {
	contact, ok, err := s.directory.ProviderEmail(ctx, app.Offer.Provider)
	if err != nil {
		s.log.Warn("provider contact lookup failed",
			zap.String("provider", app.Offer.Provider),
			zap.Error(err),
		)
		return
	}
	if !ok {
		return
	}
	s.notify(ctx, providerCreatedEmail(contact, app))
}

func validateApplicant(a domain.ApplicantDetails) error {
	if strings.TrimSpace(a.FirstName) == "" || strings.TrimSpace(a.LastName) == "" {
		return domain.ErrInvalidApplicant
	}
	if a.Age <= 0 || a.Age > 150 {
		return domain.ErrInvalidApplicant
	}
	if strings.TrimSpace(a.IDDocumentNumber) == "" {
		return domain.ErrInvalidApplicant
	}
	return nil
}

func trimReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

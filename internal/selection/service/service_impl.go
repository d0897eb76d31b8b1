package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
	auditdomain "github.com/smallbiznis/loanhub/internal/audit/domain"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/internal/events"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
	"github.com/smallbiznis/loanhub/internal/selection/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Registry     offerdomain.Registry
	Applications appdomain.Service
	Outbox       *events.Outbox
	Audit        auditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	registry     offerdomain.Registry
	applications appdomain.Service
	outbox       *events.Outbox
	audit        auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("selection.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		registry:     p.Registry,
		applications: p.Applications,
		outbox:       p.Outbox,
		audit:        p.Audit,
	}
}

// Create stores the chosen quote. A financial profile is accepted
// only complete: income, living costs and dependents together.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.OfferSelection, error) {
	inquiry := strings.TrimSpace(req.InquiryID)
	if inquiry == "" {
		return nil, domain.ErrInvalidInquiry
	}
	if strings.TrimSpace(req.Offer.Provider) == "" || strings.TrimSpace(req.Offer.OfferID) == "" {
		return nil, domain.ErrInvalidOffer
	}
	if err := validateFinancials(req.Income, req.LivingCosts, req.Dependents); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sel := &domain.OfferSelection{
		ID:            s.genID.Generate(),
		InquiryID:     inquiry,
		SelectedOffer: req.Offer,
		Income:        req.Income,
		LivingCosts:   req.LivingCosts,
		Dependents:    req.Dependents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(sel).Error; err != nil {
		return nil, err
	}

	s.recordAudit(ctx, "selection.created", sel.ID, map[string]any{
		"inquiry_id": inquiry,
		"provider":   sel.SelectedOffer.Provider,
		"offer_id":   sel.SelectedOffer.OfferID,
	})
	return sel, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.OfferSelection, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	var sel domain.OfferSelection
	err := s.db.WithContext(ctx).First(&sel, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

// Recalculate re-queries the originally selected provider with the
// refined profile and freezes the result. When the provider re-offers
// the same offer id that quote wins, otherwise the first one does.
func (s *Service) Recalculate(ctx context.Context, id snowflake.ID, req domain.RecalculateRequest) (*domain.OfferSelection, error) {
	if req.Income.Sign() < 0 || req.LivingCosts.Sign() < 0 || req.Dependents < 0 {
		return nil, domain.ErrInvalidFinancials
	}

	sel, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sel.Applied() {
		return nil, domain.ErrAlreadyApplied
	}

	provider, err := s.resolveProvider(ctx, sel.SelectedOffer.Provider)
	if err != nil {
		return nil, err
	}

	income := req.Income
	livingCosts := req.LivingCosts
	dependents := req.Dependents
	query := offerdomain.OfferQuery{
		Amount:         sel.SelectedOffer.Amount,
		DurationMonths: sel.SelectedOffer.DurationMonths,
		Income:         &income,
		LivingCosts:    &livingCosts,
		Dependents:     &dependents,
	}

	quotes, err := provider.Quote(ctx, query)
	if err != nil {
		s.log.Warn("recalculation quote failed",
			zap.String("provider", sel.SelectedOffer.Provider),
			zap.Error(err),
		)
		return nil, domain.ErrNoOffersReturned
	}
	if len(quotes) == 0 {
		return nil, domain.ErrNoOffersReturned
	}

	chosen := quotes[0]
	for _, quote := range quotes {
		if quote.OfferID == sel.SelectedOffer.OfferID {
			chosen = quote
			break
		}
	}
	snapshot := offerdomain.Snapshot(chosen, query)

	now := s.clock.Now()
	res := s.db.WithContext(ctx).
		Model(&domain.OfferSelection{}).
		Where("id = ? AND application_id IS NULL", sel.ID).
		Updates(domain.OfferSelection{
			RecalculatedOffer: &snapshot,
			Income:            &income,
			LivingCosts:       &livingCosts,
			Dependents:        &dependents,
			UpdatedAt:         now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrAlreadyApplied
	}

	sel.RecalculatedOffer = &snapshot
	sel.Income = &income
	sel.LivingCosts = &livingCosts
	sel.Dependents = &dependents
	sel.UpdatedAt = now

	s.recordAudit(ctx, "selection.recalculated", sel.ID, map[string]any{
		"provider": sel.SelectedOffer.Provider,
		"offer_id": snapshot.OfferID,
	})
	return sel, nil
}

// Apply builds a loan application from the best frozen snapshot and
// stamps the selection with it. The stamp is guarded so a second
// apply can never overwrite the first.
func (s *Service) Apply(ctx context.Context, id snowflake.ID, req domain.ApplyRequest) (*domain.OfferSelection, error) {
	sel, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sel.Applied() {
		return nil, domain.ErrAlreadyApplied
	}

	applicant := req.Applicant
	if applicant.Income == nil {
		applicant.Income = sel.Income
	}
	if applicant.LivingCosts == nil {
		applicant.LivingCosts = sel.LivingCosts
	}
	if applicant.Dependents == nil {
		applicant.Dependents = sel.Dependents
	}

	app, err := s.applications.Create(ctx, appdomain.CreateRequest{
		UserID:         req.UserID,
		ApplicantEmail: req.ApplicantEmail,
		Applicant:      applicant,
		Offer:          sel.BestOffer(),
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	res := s.db.WithContext(ctx).
		Model(&domain.OfferSelection{}).
		Where("id = ? AND application_id IS NULL", sel.ID).
		Updates(domain.OfferSelection{
			ApplicationID: &app.ID,
			AppliedAt:     &now,
			UpdatedAt:     now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		s.log.Warn("selection applied concurrently, application left unlinked",
			zap.String("selection_id", sel.ID.String()),
			zap.String("application_id", app.ID.String()),
		)
		return nil, domain.ErrAlreadyApplied
	}

	sel.ApplicationID = &app.ID
	sel.AppliedAt = &now
	sel.UpdatedAt = now

	s.publishApplied(ctx, sel)
	s.recordAudit(ctx, "selection.applied", sel.ID, map[string]any{
		"application_id": app.ID.String(),
		"provider":       sel.BestOffer().Provider,
	})
	return sel, nil
}

func (s *Service) resolveProvider(ctx context.Context, name string) (offerdomain.Provider, error) {
	providers, err := s.registry.Providers(ctx)
	if err != nil {
		return nil, err
	}
	for _, provider := range providers {
		if strings.EqualFold(strings.TrimSpace(provider.Name()), strings.TrimSpace(name)) {
			return provider, nil
		}
	}
	return nil, domain.ErrProviderNotFound
}

func (s *Service) publishApplied(ctx context.Context, sel *domain.OfferSelection) {
	err := s.outbox.Publish(ctx, events.Event{
		Type: events.EventSelectionApplied,
		Payload: events.SelectionAppliedPayload{
			SelectionID:   sel.ID.String(),
			ApplicationID: sel.ApplicationID.String(),
			Provider:      sel.BestOffer().Provider,
		}.ToMap(),
		DedupeKey: "selection.applied:" + sel.ID.String(),
	})
	if err != nil {
		s.log.Warn("failed to publish applied event",
			zap.String("selection_id", sel.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) recordAudit(ctx context.Context, action string, id snowflake.ID, metadata map[string]any) {
	err := s.audit.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: "offer_selection",
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

func validateFinancials(income, livingCosts *decimal.Decimal, dependents *int) error {
	provided := 0
	if income != nil {
		provided++
	}
	if livingCosts != nil {
		provided++
	}
	if dependents != nil {
		provided++
	}
	if provided == 0 {
		return nil
	}
	if provided != 3 {
		return domain.ErrPartialFinancials
	}
	if income.Sign() < 0 || livingCosts.Sign() < 0 || *dependents < 0 {
		return domain.ErrInvalidFinancials
	}
	return nil
}

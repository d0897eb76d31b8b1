package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"github.com/smallbiznis/loanhub/internal/clock"
	"github.com/smallbiznis/loanhub/pkg/db/pagination"
	"github.com/smallbiznis/loanhub/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  repository.Repository[domain.BankIntegration]
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("bankintegration.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.ProvideStore[domain.BankIntegration](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.BankIntegration, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	baseURL := strings.TrimSpace(req.BaseURL)
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	integration := domain.BankIntegration{
		ID:           s.genID.Generate(),
		Name:         name,
		BaseURL:      baseURL,
		APIKey:       trimOptional(req.APIKey),
		ContactEmail: trimOptional(req.ContactEmail),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &integration); err != nil {
		return nil, err
	}
	s.log.Info("bank integration created", zap.String("id", integration.ID.String()), zap.String("name", integration.Name))
	return &integration, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.BankIntegration, string, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	integrations, err := s.repo.FindPage(ctx, "created_at ASC, id ASC", page.Limit(), page.Offset())
	if err != nil {
		return nil, "", err
	}
	return integrations, page.NextToken(len(integrations)), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.BankIntegration, error) {
	parsed, err := domain.ParseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	integration, err := s.repo.FindOne(ctx, "id = ?", parsed)
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, domain.ErrNotFound
	}
	return integration, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.BankIntegration, error) {
	integration, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		integration.Name = name
	}
	if req.BaseURL != nil {
		baseURL := strings.TrimSpace(*req.BaseURL)
		if err := validateBaseURL(baseURL); err != nil {
			return nil, err
		}
		integration.BaseURL = baseURL
	}
	if req.APIKey != nil {
		integration.APIKey = trimOptional(req.APIKey)
	}
	if req.ContactEmail != nil {
		integration.ContactEmail = trimOptional(req.ContactEmail)
	}
	if req.IsActive != nil {
		integration.IsActive = *req.IsActive
	}
	integration.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return domain.ErrInvalidBaseURL
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return domain.ErrInvalidBaseURL
	}
	return nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/loanhub/internal/audit/domain"
	"github.com/smallbiznis/loanhub/internal/auditcontext"
	"github.com/smallbiznis/loanhub/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repository domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repository,
	}
}

// Record writes one audit entry. Actor identity, IP and user agent
// are taken from the request context; absent actor defaults to system.
func (s *Service) Record(ctx context.Context, entry domain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return domain.ErrInvalidAction
	}
	targetType := strings.TrimSpace(entry.TargetType)
	if targetType == "" {
		return domain.ErrInvalidTarget
	}

	actorType, actorID := auditcontext.ActorFromContext(ctx)
	if actorType == "" {
		actorType = string(domain.ActorTypeSystem)
	}

	metadata := datatypes.JSONMap{}
	for k, v := range entry.Metadata {
		metadata[k] = v
	}
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		metadata["request_id"] = requestID
	}

	record := &domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actorType,
		ActorID:    optional(actorID),
		Action:     action,
		TargetType: targetType,
		TargetID:   optional(entry.TargetID),
		Metadata:   metadata,
		IPAddress:  optional(auditcontext.IPAddressFromContext(ctx)),
		UserAgent:  optional(auditcontext.UserAgentFromContext(ctx)),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		s.log.Error("failed to write audit entry",
			zap.String("action", action),
			zap.String("target_type", targetType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

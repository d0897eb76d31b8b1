package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/loanhub/internal/audit/domain"
	"github.com/smallbiznis/loanhub/internal/audit/repository"
	"github.com/smallbiznis/loanhub/internal/auditcontext"
	"github.com/smallbiznis/loanhub/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	svc := NewService(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.Fixed{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		Repository: repository.Provide(),
	})
	return svc, db
}

func TestRecordWritesEntryWithContextActor(t *testing.T) {
	svc, db := newTestService(t)

	ctx := auditcontext.WithActor(context.Background(), string(domain.ActorTypeOperator), "ops-7")
	ctx = auditcontext.WithRequestID(ctx, "req-123")
	ctx = auditcontext.WithIPAddress(ctx, "10.1.2.3")

	err := svc.Record(ctx, domain.Entry{
		Action:     "application.status_changed",
		TargetType: "loan_application",
		TargetID:   "42",
		Metadata:   map[string]any{"to_status": "ACCEPTED"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	var stored domain.AuditLog
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.ActorType != string(domain.ActorTypeOperator) || stored.ActorID == nil || *stored.ActorID != "ops-7" {
		t.Fatalf("unexpected actor: %s %v", stored.ActorType, stored.ActorID)
	}
	if stored.Metadata["request_id"] != "req-123" {
		t.Fatalf("request id not captured: %v", stored.Metadata)
	}
	if stored.IPAddress == nil || *stored.IPAddress != "10.1.2.3" {
		t.Fatalf("ip not captured: %v", stored.IPAddress)
	}
}

func TestRecordDefaultsToSystemActor(t *testing.T) {
	svc, db := newTestService(t)

	if err := svc.Record(context.Background(), domain.Entry{
		Action:     "application.created",
		TargetType: "loan_application",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	var stored domain.AuditLog
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.ActorType != string(domain.ActorTypeSystem) {
		t.Fatalf("expected system actor, got %s", stored.ActorType)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Record(context.Background(), domain.Entry{TargetType: "loan_application"})
	if !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	err = svc.Record(context.Background(), domain.Entry{Action: "application.created"})
	if !errors.Is(err, domain.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestListFiltersByTarget(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, target := range []string{"1", "1", "2"} {
		if err := svc.Record(ctx, domain.Entry{
			Action:     "selection.applied",
			TargetType: "offer_selection",
			TargetID:   target,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := svc.List(ctx, domain.ListFilter{
		TargetType: "offer_selection",
		TargetID:   "1",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

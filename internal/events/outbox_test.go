package events

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestOutbox(t *testing.T) (*Outbox, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&LoanEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return NewOutbox(db, node), db
}

func TestPublishStoresEvent(t *testing.T) {
	outbox, db := newTestOutbox(t)

	err := outbox.Publish(context.Background(), Event{
		Type: EventApplicationCreated,
		Payload: ApplicationCreatedPayload{
			ApplicationID: "42",
			Provider:      "NordPeak Bank",
			OfferID:       "syn-abc",
		}.ToMap(),
		DedupeKey: "application.created:42",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	var stored LoanEvent
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.EventType != EventApplicationCreated {
		t.Fatalf("unexpected type: %s", stored.EventType)
	}
	if stored.Published {
		t.Fatal("new event must start unpublished")
	}
	if stored.Payload["application_id"] != "42" {
		t.Fatalf("unexpected payload: %v", stored.Payload)
	}
}

func TestPublishDedupesByKey(t *testing.T) {
	outbox, db := newTestOutbox(t)
	ctx := context.Background()

	event := Event{
		Type:      EventSelectionApplied,
		Payload:   map[string]any{"selection_id": "7"},
		DedupeKey: "selection.applied:7",
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	var count int64
	if err := db.Model(&LoanEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event after dedupe, got %d", count)
	}
}

func TestPublishWithoutDedupeKeyAlwaysInserts(t *testing.T) {
	outbox, db := newTestOutbox(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := outbox.Publish(ctx, Event{
			Type:    EventApplicationStatusChanged,
			Payload: map[string]any{"to_status": "ACCEPTED"},
		}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&LoanEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 events, got %d", count)
	}
}

func TestPublishRejectsMissingType(t *testing.T) {
	outbox, _ := newTestOutbox(t)
	if err := outbox.Publish(context.Background(), Event{}); err == nil {
		t.Fatal("expected error for missing event type")
	}
}

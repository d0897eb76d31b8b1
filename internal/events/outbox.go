package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LoanEvent is one stored outbox row awaiting dispatch.
type LoanEvent struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	EventType   string            `gorm:"type:text;not null;index"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	DedupeKey   *string           `gorm:"type:text;uniqueIndex"`
	Published   bool              `gorm:"not null;default:false;index"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	PublishedAt *time.Time
}

// TableName sets the database table name.
func (LoanEvent) TableName() string { return "loan_events" }

// Event describes a lifecycle event to store in the outbox.
type Event struct {
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// Outbox inserts lifecycle events into the loan_events table.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	return o.publish(ctx, o.db, event)
}

// PublishTx stores an event using an existing transaction.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	if tx == nil {
		return errors.New("missing_transaction")
	}
	return o.publish(ctx, tx, event)
}

func (o *Outbox) publish(ctx context.Context, db *gorm.DB, event Event) error {
	if o == nil || db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	dedupe := strings.TrimSpace(event.DedupeKey)
	var dedupeValue any
	if dedupe != "" {
		dedupeValue = dedupe
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`INSERT INTO loan_events (id, event_type, payload, dedupe_key, published, created_at)
		 VALUES (?, ?, ?, ?, false, ?)
		 ON CONFLICT (dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		name,
		payload,
		dedupeValue,
		now,
	).Error
}

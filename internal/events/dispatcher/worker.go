// Package dispatcher drains the loan event outbox and hands each
// stored event to a sink.
package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/loanhub/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sink receives dispatched events. A sink error leaves the event
// unpublished so the next poll retries it.
type Sink interface {
	Deliver(ctx context.Context, event events.LoanEvent) error
}

// LogSink writes dispatched events to the application log. It is the
// default sink until an external consumer is wired in.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("events.sink")}
}

func (s *LogSink) Deliver(ctx context.Context, event events.LoanEvent) error {
	s.log.Info("loan event dispatched",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
		zap.Any("payload", map[string]any(event.Payload)),
	)
	return nil
}

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Sink   Sink
	Config Config `optional:"true"`
}

type Worker struct {
	db   *gorm.DB
	log  *zap.Logger
	sink Sink
	cfg  Config
}

func NewWorker(p Params) *Worker {
	return &Worker{
		db:   p.DB,
		log:  p.Log.Named("events.dispatcher"),
		sink: p.Sink,
		cfg:  p.Config.withDefaults(),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("event dispatch run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce dispatches up to one batch of unpublished events and
// returns how many were delivered.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if w.db == nil || w.sink == nil {
		return 0, errors.New("dispatcher_unavailable")
	}

	var batch []events.LoanEvent
	err := w.db.WithContext(ctx).
		Where("published = ?", false).
		Order("created_at ASC, id ASC").
		Limit(w.cfg.BatchSize).
		Find(&batch).Error
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for _, event := range batch {
		if err := w.sink.Deliver(ctx, event); err != nil {
			w.log.Warn("event delivery failed",
				zap.String("event_id", event.ID.String()),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			continue
		}

		now := time.Now().UTC()
		res := w.db.WithContext(ctx).Exec(
			`UPDATE loan_events
			 SET published = true, published_at = ?
			 WHERE id = ? AND published = false`,
			now, event.ID,
		)
		if res.Error != nil {
			return dispatched, res.Error
		}
		if res.RowsAffected == 1 {
			dispatched++
		}
	}
	return dispatched, nil
}

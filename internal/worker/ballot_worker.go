package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"cfb-poll/internal/metrics"
	"cfb-poll/internal/platform/events"
)

// BallotEvent is published once a final ballot has been stored.
type BallotEvent struct {
	BallotID    int64     `json:"ballot_id"`
	UserID      int64     `json:"user_id"`
	PeriodID    int64     `json:"period_id"`
	Season      string    `json:"season"`
	Period      int       `json:"period"`
	Entries     int       `json:"entries"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type BallotWorker struct {
	ch     <-chan BallotEvent
	pub    events.Publisher
	logger *slog.Logger
}

func NewBallotWorker(ch <-chan BallotEvent, pub events.Publisher, logger *slog.Logger) *BallotWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &BallotWorker{ch: ch, pub: pub, logger: logger}
}

func (w *BallotWorker) Run(ctx context.Context) {
	w.logger.Info("ballot worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ballot worker stopped")
			return
		case ev, ok := <-w.ch:
			if !ok {
				w.logger.Info("ballot worker stopped, channel closed")
				return
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *BallotWorker) handle(ctx context.Context, ev BallotEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		w.logger.Error("encode ballot event", "ballot_id", ev.BallotID, "error", err)
		return
	}

	// Keyed by period so one period's submissions stay ordered on a partition.
	err = w.pub.Publish(ctx, strconv.FormatInt(ev.PeriodID, 10), payload)
	metrics.IncEventPublished(err == nil)
	if err != nil {
		w.logger.Error("publish ballot event",
			"ballot_id", ev.BallotID,
			"period_id", ev.PeriodID,
			"error", err,
		)
		return
	}
	w.logger.Debug("ballot event published", "ballot_id", ev.BallotID, "period_id", ev.PeriodID)
}

package worker

import (
	"context"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AttemptWriter stores submitted attempt summaries.
type AttemptWriter interface {
	InsertSummaries(ctx context.Context, batch []model.AttemptSummary) error
	InsertSummary(ctx context.Context, a model.AttemptSummary) error
}

// AttemptWorker consumes persist_attempts_queue and records submitted
// attempts in the user's history.
type AttemptWorker struct {
	consumer *queueConsumer[model.AttemptSummary]
}

// NewAttemptWorker creates a new AttemptWorker.
func NewAttemptWorker(store AttemptWriter, rdb *redis.Client, cfg BatchConfig, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{consumer: &queueConsumer[model.AttemptSummary]{
		rdb:    rdb,
		queue:  config.WorkerKey.PersistAttemptsQueue,
		cfg:    cfg,
		bulk:   store.InsertSummaries,
		single: store.InsertSummary,
		log:    log.With().Str("component", "attempt_worker").Logger(),
	}}
}

// Start runs until ctx is cancelled, then flushes and drains the queue.
// Call in a goroutine.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.consumer.run(ctx)
}

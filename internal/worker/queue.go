package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// BatchConfig tunes a queue consumer.
type BatchConfig struct {
	Size    int
	Timeout time.Duration
	Poll    time.Duration
}

// DefaultBatchConfig flushes every 50 items or 2 seconds.
var DefaultBatchConfig = BatchConfig{
	Size:    50,
	Timeout: 2 * time.Second,
	Poll:    time.Second,
}

// queueConsumer pops JSON payloads from a Redis list and writes them in
// batches. When a batch write fails each item is retried on its own and
// the ones that still fail go back on the queue.
type queueConsumer[T any] struct {
	rdb    *redis.Client
	queue  string
	cfg    BatchConfig
	bulk   func(ctx context.Context, batch []T) error
	single func(ctx context.Context, item T) error
	log    zerolog.Logger
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (q *queueConsumer[T]) run(ctx context.Context) {
	q.log.Info().Str("queue", q.queue).Msg("Worker started")

	batch := make([]T, 0, q.cfg.Size)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= q.cfg.Size || time.Since(lastFlush) >= q.cfg.Timeout) {
			q.flush(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			q.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			q.flush(context.Background(), batch)
			q.drain(context.Background())
			q.log.Info().Msg("Worker stopped")
			return

		default:
			item, err := q.rdb.BLPop(ctx, q.cfg.Poll, q.queue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					q.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var p T
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				q.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}
			batch = append(batch, p)
		}
	}
}

// ----------------------------------------------------------------
// Batch write with per-item fallback
// ----------------------------------------------------------------

func (q *queueConsumer[T]) flush(ctx context.Context, batch []T) int {
	if len(batch) == 0 {
		return 0
	}

	err := q.bulk(ctx, batch)
	if err == nil {
		return 0
	}
	q.log.Warn().Err(err).Int("size", len(batch)).Msg("Bulk write failed, using fallback")

	requeued := 0
	for _, p := range batch {
		err := q.single(ctx, p)
		if err == nil {
			continue
		}
		if permanent(err) {
			q.log.Error().Err(err).Msg("Dropping payload rejected by the database")
			continue
		}
		q.log.Error().Err(err).Msg("Single write failed, requeueing")
		raw, _ := json.Marshal(p)
		if err := q.rdb.RPush(ctx, q.queue, raw).Err(); err != nil {
			q.log.Error().Err(err).Msg("Requeue failed, payload lost")
			continue
		}
		requeued++
	}
	return requeued
}

// drain writes whatever is left on the queue. It stops at the first batch
// that had to be requeued so shutdown cannot loop forever.
func (q *queueConsumer[T]) drain(ctx context.Context) {
	drained := 0
	for {
		items, err := q.rdb.LPopCount(ctx, q.queue, q.cfg.Size).Result()
		if err != nil || len(items) == 0 {
			break
		}

		batch := make([]T, 0, len(items))
		for _, raw := range items {
			var p T
			if err := json.Unmarshal([]byte(raw), &p); err != nil {
				q.log.Error().Err(err).Msg("Drain unmarshal error")
				continue
			}
			batch = append(batch, p)
		}

		requeued := q.flush(ctx, batch)
		drained += len(batch) - requeued
		if requeued > 0 {
			break
		}
	}

	if drained > 0 {
		q.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

// permanent reports whether retrying err can never succeed: data and
// integrity violations.
func permanent(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || len(pgErr.Code) < 2 {
		return false
	}
	class := pgErr.Code[:2]
	return class == "22" || class == "23"
}

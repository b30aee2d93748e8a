package worker

import (
	"context"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnswerWriter stores committed answers.
type AnswerWriter interface {
	UpsertAnswers(ctx context.Context, batch []model.AttemptAnswer) error
	UpsertAnswer(ctx context.Context, a model.AttemptAnswer) error
}

// AnswerWorker consumes persist_answers_queue and UPSERTs committed answers
// to PostgreSQL.
type AnswerWorker struct {
	consumer *queueConsumer[model.AttemptAnswer]
}

// NewAnswerWorker creates a new AnswerWorker.
func NewAnswerWorker(store AnswerWriter, rdb *redis.Client, cfg BatchConfig, log zerolog.Logger) *AnswerWorker {
	return &AnswerWorker{consumer: &queueConsumer[model.AttemptAnswer]{
		rdb:   rdb,
		queue: config.WorkerKey.PersistAnswersQueue,
		cfg:   cfg,
		bulk: func(ctx context.Context, batch []model.AttemptAnswer) error {
			return store.UpsertAnswers(ctx, latestAnswers(batch))
		},
		single: store.UpsertAnswer,
		log:    log.With().Str("component", "answer_worker").Logger(),
	}}
}

// Start runs until ctx is cancelled, then flushes and drains the queue.
// Call in a goroutine.
func (w *AnswerWorker) Start(ctx context.Context) {
	w.consumer.run(ctx)
}

// latestAnswers keeps the last commit of each question in a batch, since
// one UPSERT statement cannot touch the same row twice.
func latestAnswers(batch []model.AttemptAnswer) []model.AttemptAnswer {
	type key struct {
		attempt  string
		question string
	}
	pos := make(map[key]int, len(batch))
	out := make([]model.AttemptAnswer, 0, len(batch))
	for _, a := range batch {
		k := key{a.AttemptID.String(), a.QuestionID}
		if i, ok := pos[k]; ok {
			out[i] = a
			continue
		}
		pos[k] = len(out)
		out = append(out, a)
	}
	return out
}

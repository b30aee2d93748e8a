package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paperprep/paperprep-backend/internal/model"
)

// AttemptRepository stores submitted attempts and their answers. Writes
// come from the persistence workers.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// ListByUser returns a user's attempts, most recent first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID, limit, offset int) ([]model.AttemptSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, paper_id, paper_title, attempted, correct, wrong, skipped,
		        score, total, duration_sec, started_at, completed_at
		 FROM quiz_attempts
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	attempts := []model.AttemptSummary{}
	for rows.Next() {
		var a model.AttemptSummary
		if err := rows.Scan(&a.ID, &a.UserID, &a.PaperID, &a.PaperTitle, &a.Attempted, &a.Correct,
			&a.Wrong, &a.Skipped, &a.Score, &a.Total, &a.DurationSec, &a.StartedAt, &a.CompletedAt); err != nil {
			return nil, 0, err
		}
		attempts = append(attempts, a)
	}
	return attempts, total, rows.Err()
}

// InsertSummaries stores a batch of attempt summaries in one statement.
// Attempts already stored are left untouched.
func (r *AttemptRepository) InsertSummaries(ctx context.Context, batch []model.AttemptSummary) error {
	n := len(batch)
	ids := make([]uuid.UUID, n)
	userIDs := make([]int32, n)
	paperIDs := make([]string, n)
	titles := make([]string, n)
	attempted := make([]int32, n)
	correct := make([]int32, n)
	wrong := make([]int32, n)
	skipped := make([]int32, n)
	scores := make([]int32, n)
	totals := make([]int32, n)
	durations := make([]int32, n)
	startedAts := make([]time.Time, n)
	completedAts := make([]time.Time, n)

	for i, a := range batch {
		ids[i] = a.ID
		userIDs[i] = int32(a.UserID)
		paperIDs[i] = a.PaperID
		titles[i] = a.PaperTitle
		attempted[i] = int32(a.Attempted)
		correct[i] = int32(a.Correct)
		wrong[i] = int32(a.Wrong)
		skipped[i] = int32(a.Skipped)
		scores[i] = int32(a.Score)
		totals[i] = int32(a.Total)
		durations[i] = int32(a.DurationSec)
		startedAts[i] = a.StartedAt
		completedAts[i] = a.CompletedAt
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO quiz_attempts (
			id, user_id, paper_id, paper_title, attempted, correct, wrong, skipped,
			score, total, duration_sec, started_at, completed_at
		)
		SELECT * FROM UNNEST(
			$1::uuid[], $2::int[], $3::text[], $4::text[], $5::int[], $6::int[], $7::int[], $8::int[],
			$9::int[], $10::int[], $11::int[], $12::timestamptz[], $13::timestamptz[]
		)
		ON CONFLICT (id) DO NOTHING`,
		ids, userIDs, paperIDs, titles, attempted, correct, wrong, skipped,
		scores, totals, durations, startedAts, completedAts)
	return err
}

// InsertSummary stores one attempt summary.
func (r *AttemptRepository) InsertSummary(ctx context.Context, a model.AttemptSummary) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quiz_attempts (
			id, user_id, paper_id, paper_title, attempted, correct, wrong, skipped,
			score, total, duration_sec, started_at, completed_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO NOTHING`,
		a.ID, a.UserID, a.PaperID, a.PaperTitle, a.Attempted, a.Correct, a.Wrong, a.Skipped,
		a.Score, a.Total, a.DurationSec, a.StartedAt, a.CompletedAt)
	return err
}

// UpsertAnswers stores a batch of committed answers. The batch must not
// contain the same (attempt, question) pair twice.
func (r *AttemptRepository) UpsertAnswers(ctx context.Context, batch []model.AttemptAnswer) error {
	n := len(batch)
	attemptIDs := make([]uuid.UUID, n)
	userIDs := make([]int32, n)
	questionIDs := make([]string, n)
	selected := make([]string, n)
	correct := make([]bool, n)
	answeredAts := make([]time.Time, n)

	for i, a := range batch {
		attemptIDs[i] = a.AttemptID
		userIDs[i] = int32(a.UserID)
		questionIDs[i] = a.QuestionID
		selected[i] = a.Selected
		correct[i] = a.IsCorrect
		answeredAts[i] = a.AnsweredAt
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO attempt_answers (attempt_id, user_id, question_id, selected, is_correct, answered_at)
		SELECT * FROM UNNEST($1::uuid[], $2::int[], $3::text[], $4::text[], $5::bool[], $6::timestamptz[])
		ON CONFLICT (attempt_id, question_id) DO UPDATE
		SET selected = EXCLUDED.selected,
		    is_correct = EXCLUDED.is_correct,
		    answered_at = EXCLUDED.answered_at
		WHERE attempt_answers.answered_at <= EXCLUDED.answered_at`,
		attemptIDs, userIDs, questionIDs, selected, correct, answeredAts)
	return err
}

// UpsertAnswer stores one committed answer.
func (r *AttemptRepository) UpsertAnswer(ctx context.Context, a model.AttemptAnswer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attempt_answers (attempt_id, user_id, question_id, selected, is_correct, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET selected = EXCLUDED.selected,
		     is_correct = EXCLUDED.is_correct,
		     answered_at = EXCLUDED.answered_at
		 WHERE attempt_answers.answered_at <= EXCLUDED.answered_at`,
		a.AttemptID, a.UserID, a.QuestionID, a.Selected, a.IsCorrect, a.AnsweredAt)
	return err
}

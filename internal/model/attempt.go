package model

import (
	"time"

	"github.com/google/uuid"
)

// StartAttemptRequest starts a new quiz attempt.
type StartAttemptRequest struct {
	QuestionFilter
	// TimeSeconds overrides the countdown. Zero means the paper duration
	// for a single paper, otherwise a fixed allowance per question.
	TimeSeconds int `json:"time_seconds" binding:"omitempty,min=10,max=86400"`
}

// SelectOptionRequest sets the draft response to one option text.
type SelectOptionRequest struct {
	Option string `json:"option" binding:"required"`
}

// ReviewFlagRequest sets the draft review flag.
type ReviewFlagRequest struct {
	Marked *bool `json:"marked" binding:"required"`
}

// NavigateRequest jumps to a question by its zero-based index.
type NavigateRequest struct {
	Index *int `json:"index" binding:"required"`
}

// ResultQuery selects the review ordering of a result.
type ResultQuery struct {
	Sort string `form:"sort" binding:"omitempty,oneof=all correct incorrect skipped"`
}

// AttemptSummary is the persisted record of a submitted attempt.
type AttemptSummary struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	PaperID     string    `json:"paper_id"`
	PaperTitle  string    `json:"paper_title"`
	Attempted   int       `json:"attempted"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	Skipped     int       `json:"skipped"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	DurationSec int       `json:"duration_sec"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// AttemptAnswer is the persisted committed answer of one question.
type AttemptAnswer struct {
	AttemptID  uuid.UUID `json:"attempt_id"`
	UserID     int       `json:"user_id"`
	QuestionID string    `json:"question_id"`
	Selected   string    `json:"selected"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// AttemptHistoryQuery pages through a user's attempts.
type AttemptHistoryQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// Normalize applies default paging.
func (q *AttemptHistoryQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = 20
	}
}

// Offset returns the row offset of the requested page.
func (q AttemptHistoryQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

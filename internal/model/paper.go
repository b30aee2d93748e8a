package model

import "time"

// Paper is a past exam paper in the catalog.
type Paper struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Year            int       `json:"year"`
	Exam            string    `json:"exam"`
	DurationMinutes int       `json:"duration_minutes"`
	Sections        []string  `json:"sections"`
	Subjects        []string  `json:"subjects"`
	QuestionTypes   []string  `json:"question_types"`
	TotalQuestions  int       `json:"total_questions"`
	TotalMarks      int       `json:"total_marks"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PaperListQuery filters the paper listing.
type PaperListQuery struct {
	Exam    string `form:"exam" binding:"omitempty,max=100"`
	Year    int    `form:"year" binding:"omitempty,min=1900,max=2100"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// Normalize applies default paging.
func (q *PaperListQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = 20
	}
}

// Offset returns the row offset of the requested page.
func (q PaperListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

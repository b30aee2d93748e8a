package model

import "strings"

// Difficulty levels known to the catalog.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// SubjectAll disables subject filtering.
const SubjectAll = "all"

// QuestionFilter selects the questions of a new attempt.
//
// When PaperIDs is set the attempt is a full paper and the other filters are
// ignored. Otherwise the filters apply across the whole catalog.
type QuestionFilter struct {
	PaperIDs      []string `json:"paper_ids" binding:"omitempty,max=10,dive,required,slug"`
	Difficulties  []string `json:"difficulties" binding:"omitempty,dive,oneof=easy medium hard"`
	Subject       string   `json:"subject" binding:"omitempty,max=100"`
	QuestionTypes []string `json:"question_types" binding:"omitempty,dive,required,max=100"`
	Limit         int      `json:"limit" binding:"omitempty,min=1"`
}

// ExamMode reports whether the filter names whole papers.
func (f QuestionFilter) ExamMode() bool {
	return len(f.PaperIDs) > 0
}

// SubjectFilter returns the subject to filter by, or "" for any subject.
func (f QuestionFilter) SubjectFilter() string {
	s := strings.TrimSpace(f.Subject)
	if strings.EqualFold(s, SubjectAll) {
		return ""
	}
	return s
}

// DifficultyFilter returns the difficulties to filter by. Selecting none or
// all three levels means no difficulty filtering.
func (f QuestionFilter) DifficultyFilter() []string {
	if len(f.Difficulties) == 0 || len(f.Difficulties) >= 3 {
		return nil
	}
	return f.Difficulties
}

// ImportPassage is one passage in a paper import file.
type ImportPassage struct {
	ID      string `json:"id" binding:"required,max=100"`
	Section string `json:"section" binding:"omitempty,max=100"`
	Text    string `json:"text" binding:"required"`
	Source  string `json:"source" binding:"omitempty,max=500"`
}

// ImportQuestion is one question in a paper import file.
type ImportQuestion struct {
	ID           string   `json:"id" binding:"required,max=100"`
	Number       int      `json:"number" binding:"required,min=1"`
	Subject      string   `json:"subject" binding:"omitempty,max=100"`
	Section      string   `json:"section" binding:"omitempty,max=100"`
	QuestionType string   `json:"question_type" binding:"omitempty,max=100"`
	Difficulty   string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	PassageID    string   `json:"passage_id" binding:"omitempty,max=100"`
	Instruction  string   `json:"instruction"`
	Statement    string   `json:"statement" binding:"required"`
	Texts        []string `json:"texts"`
	Options      []string `json:"options" binding:"required,min=2,max=26,dive,required"`
	Answer       string   `json:"answer" binding:"required,answer_key"`
	Marks        int      `json:"marks" binding:"omitempty,min=0"`
	ImageURLs    []string `json:"image_urls" binding:"omitempty,dive,url"`
	ImageAlt     string   `json:"image_alt" binding:"omitempty,max=500"`
}

// ImportPaperRequest is a complete paper with its passages and questions.
// It is accepted by the admin import endpoint and the import-paper CLI.
type ImportPaperRequest struct {
	ID              string           `json:"id" binding:"required,slug"`
	Title           string           `json:"title" binding:"required,max=200"`
	Year            int              `json:"year" binding:"omitempty,min=1900,max=2100"`
	Exam            string           `json:"exam" binding:"omitempty,max=100"`
	DurationMinutes int              `json:"duration_minutes" binding:"omitempty,min=1,max=1440"`
	Sections        []string         `json:"sections"`
	Passages        []ImportPassage  `json:"passages" binding:"omitempty,dive"`
	Questions       []ImportQuestion `json:"questions" binding:"required,min=1,dive"`
}

// ImportPaperResponse summarises an import.
type ImportPaperResponse struct {
	Paper     Paper `json:"paper"`
	Questions int   `json:"questions"`
	Passages  int   `json:"passages"`
}

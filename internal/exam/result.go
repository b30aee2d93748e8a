package exam

import (
	"math"
	"sort"
)

// NotAnswered is the answer text shown for a question left without response.
const NotAnswered = "Not Answered"

// ReviewItem is one row of the result review.
type ReviewItem struct {
	QuestionID string `json:"question_id"`
	Number     int    `json:"number"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"is_correct"`
	Skipped    bool   `json:"skipped"`
}

// Result is the immutable outcome of a submitted session.
type Result struct {
	Score   int          `json:"score"`
	Total   int          `json:"total"`
	Answers []ReviewItem `json:"answers"`
}

// Tally splits a result into attempted, correct, wrong and skipped counts.
type Tally struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	Wrong     int `json:"wrong"`
	Skipped   int `json:"skipped"`
}

// Score builds the result for committed answers. The score is the number of
// correct answers; there is no partial credit and no negative marking.
func Score(questions []Question, answers []AnswerState) Result {
	res := Result{
		Total:   len(questions),
		Answers: make([]ReviewItem, len(questions)),
	}
	for i, q := range questions {
		var a AnswerState
		if i < len(answers) {
			a = answers[i]
		}
		item := ReviewItem{
			QuestionID: q.ID,
			Number:     q.Number,
			Question:   q.Statement,
			Answer:     a.Response,
			IsCorrect:  a.IsCorrect,
		}
		if !a.HasResponse() {
			item.Answer = NotAnswered
			item.Skipped = true
		}
		if a.IsCorrect {
			res.Score++
		}
		res.Answers[i] = item
	}
	return res
}

// Percentage returns round(score/total*100), or 0 for an empty result.
func (r Result) Percentage() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.Total) * 100))
}

// Tally counts the review items by outcome.
func (r Result) Tally() Tally {
	var t Tally
	for _, item := range r.Answers {
		switch {
		case item.Skipped:
			t.Skipped++
		case item.IsCorrect:
			t.Attempted++
			t.Correct++
		default:
			t.Attempted++
			t.Wrong++
		}
	}
	return t
}

// SortOrder selects which review items float to the top.
type SortOrder string

const (
	SortAll       SortOrder = "all"
	SortCorrect   SortOrder = "correct"
	SortIncorrect SortOrder = "incorrect"
	SortSkipped   SortOrder = "skipped"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to SortAll.
func ParseSortOrder(v string) SortOrder {
	switch SortOrder(v) {
	case SortCorrect, SortIncorrect, SortSkipped:
		return SortOrder(v)
	default:
		return SortAll
	}
}

// Sorted returns a copy of the review items with those matching order
// first. The sort is stable so question order is kept within each group.
func (r Result) Sorted(order SortOrder) []ReviewItem {
	out := make([]ReviewItem, len(r.Answers))
	copy(out, r.Answers)

	var first func(ReviewItem) bool
	switch order {
	case SortCorrect:
		first = func(it ReviewItem) bool { return it.IsCorrect }
	case SortIncorrect:
		first = func(it ReviewItem) bool { return !it.IsCorrect && !it.Skipped }
	case SortSkipped:
		first = func(it ReviewItem) bool { return it.Skipped }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return first(out[i]) && !first(out[j])
	})
	return out
}

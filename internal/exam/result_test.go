package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResult() Result {
	return Result{
		Score: 2,
		Total: 5,
		Answers: []ReviewItem{
			{QuestionID: "q1", Answer: "x", IsCorrect: false},
			{QuestionID: "q2", Answer: NotAnswered, Skipped: true},
			{QuestionID: "q3", Answer: "y", IsCorrect: true},
			{QuestionID: "q4", Answer: "z", IsCorrect: false},
			{QuestionID: "q5", Answer: "w", IsCorrect: true},
		},
	}
}

func ids(items []ReviewItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.QuestionID
	}
	return out
}

func TestSorted(t *testing.T) {
	r := sampleResult()

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortAll, []string{"q1", "q2", "q3", "q4", "q5"}},
		{SortCorrect, []string{"q3", "q5", "q1", "q2", "q4"}},
		{SortIncorrect, []string{"q1", "q4", "q2", "q3", "q5"}},
		{SortSkipped, []string{"q2", "q1", "q3", "q4", "q5"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(r.Sorted(tt.order)))
		})
	}

	assert.Equal(t, "q1", r.Answers[0].QuestionID, "source order must not change")
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortCorrect, ParseSortOrder("correct"))
	assert.Equal(t, SortAll, ParseSortOrder(""))
	assert.Equal(t, SortAll, ParseSortOrder("nonsense"))
}

func TestPercentageAndTally(t *testing.T) {
	r := sampleResult()
	assert.Equal(t, 40, r.Percentage())
	assert.Equal(t, Tally{Attempted: 4, Correct: 2, Wrong: 2, Skipped: 1}, r.Tally())

	assert.Equal(t, 0, Result{}.Percentage())
	assert.Equal(t, 67, Result{Score: 2, Total: 3}.Percentage())
}

func TestScoreBlankResponseIsSkipped(t *testing.T) {
	qs := fixture(2)
	answers := []AnswerState{
		{Response: "  ", Status: StatusNotAnswered},
		{Response: "B2", Status: StatusAnswered, IsCorrect: true},
	}

	r := Score(qs, answers)
	assert.Equal(t, 1, r.Score)
	assert.Equal(t, NotAnswered, r.Answers[0].Answer)
	assert.True(t, r.Answers[0].Skipped)
	assert.Equal(t, "Statement 2", r.Answers[1].Question)
}

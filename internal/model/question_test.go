package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionFilterModes(t *testing.T) {
	assert.True(t, QuestionFilter{PaperIDs: []string{"p1"}}.ExamMode())
	assert.False(t, QuestionFilter{Subject: "Physics"}.ExamMode())
}

func TestSubjectFilter(t *testing.T) {
	assert.Equal(t, "", QuestionFilter{Subject: "All"}.SubjectFilter())
	assert.Equal(t, "", QuestionFilter{}.SubjectFilter())
	assert.Equal(t, "Physics", QuestionFilter{Subject: " Physics "}.SubjectFilter())
}

func TestDifficultyFilter(t *testing.T) {
	assert.Nil(t, QuestionFilter{}.DifficultyFilter())
	assert.Nil(t, QuestionFilter{Difficulties: []string{"easy", "medium", "hard"}}.DifficultyFilter())
	assert.Equal(t, []string{"hard"}, QuestionFilter{Difficulties: []string{"hard"}}.DifficultyFilter())
}

func TestPagingDefaults(t *testing.T) {
	q := AttemptHistoryQuery{}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PerPage)
	assert.Equal(t, 0, q.Offset())

	p := PaperListQuery{Page: 3, PerPage: 10}
	assert.Equal(t, 20, p.Offset())
}

package exam

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSharedOptions() []Question {
	qs := make([]Question, 3)
	for i, id := range []string{"q1", "q2", "q3"} {
		qs[i] = Question{RawQuestion: RawQuestion{
			ID:        id,
			Number:    i + 1,
			Statement: "Statement " + id,
			Options:   []string{"A1", "A2", "A3"},
			Answer:    "B",
		}}
	}
	return qs
}

func TestNewSessionInitialStates(t *testing.T) {
	s := NewSession(fixture(3), 60)

	answers := s.Answers()
	require.Len(t, answers, 3)
	assert.Equal(t, StatusNotAnswered, answers[0].Status)
	assert.Equal(t, StatusNotVisited, answers[1].Status)
	assert.Equal(t, StatusNotVisited, answers[2].Status)
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 60, s.Remaining())
	assert.False(t, s.Submitted())
}

func TestNewSessionDedupes(t *testing.T) {
	qs := []Question{
		{RawQuestion: RawQuestion{ID: "q1", Statement: "kept"}},
		{RawQuestion: RawQuestion{ID: "q1", Statement: "dropped"}},
		{RawQuestion: RawQuestion{ID: "q2"}},
	}
	s := NewSession(qs, 60)

	assert.Len(t, s.Answers(), 2)
	assert.Equal(t, "kept", s.Questions()[0].Statement)
}

func TestEmptySession(t *testing.T) {
	s := NewSession(nil, 60)

	assert.True(t, s.Empty())
	assert.ErrorIs(t, s.Select("A"), ErrEmptySession)
	_, err := s.SaveAndNext()
	assert.ErrorIs(t, err, ErrEmptySession)
	assert.ErrorIs(t, s.NavigateToQuestion(0), ErrEmptySession)

	_, ok := s.CurrentQuestion()
	assert.False(t, ok)
}

func TestSubmitScenario(t *testing.T) {
	s := NewSession(threeSharedOptions(), 600)

	require.NoError(t, s.Select("A2"))
	_, err := s.SaveAndNext()
	require.NoError(t, err)

	_, err = s.SaveAndNext()
	require.NoError(t, err)

	require.NoError(t, s.SetMarkedForReview(true))
	res, ok := s.Submit()
	require.True(t, ok)

	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Answers, 3)
	assert.Equal(t, "A2", res.Answers[0].Answer)
	assert.True(t, res.Answers[0].IsCorrect)
	assert.Equal(t, NotAnswered, res.Answers[1].Answer)
	assert.False(t, res.Answers[1].IsCorrect)
	assert.Equal(t, NotAnswered, res.Answers[2].Answer)
	assert.False(t, res.Answers[2].IsCorrect)

	answers := s.Answers()
	assert.Equal(t, StatusAnswered, answers[0].Status)
	assert.Equal(t, StatusNotAnswered, answers[1].Status)
	assert.Equal(t, StatusMarkedForReview, answers[2].Status)
}

func TestTimerAutoSubmitsOnce(t *testing.T) {
	calls := 0
	var hooked Result
	s := NewSession(fixture(5), 5, WithSubmitHook(func(r Result) {
		calls++
		hooked = r
	}))

	for i := 0; i < 4; i++ {
		_, fired := s.Tick()
		assert.False(t, fired)
	}
	res, fired := s.Tick()
	require.True(t, fired)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 5, res.Total)
	for _, item := range res.Answers {
		assert.Equal(t, NotAnswered, item.Answer)
	}
	assert.Equal(t, res, hooked)

	_, fired = s.Tick()
	assert.False(t, fired)

	again, transitioned := s.Submit()
	assert.False(t, transitioned)
	assert.Equal(t, res, again)
	assert.Equal(t, 1, calls)
}

func TestSessionWithoutTimeStartsSubmitted(t *testing.T) {
	calls := 0
	s := NewSession(fixture(2), 0, WithSubmitHook(func(Result) { calls++ }))

	assert.True(t, s.Submitted())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Remaining())
	assert.ErrorIs(t, s.Select("B1"), ErrSessionSubmitted)

	_, fired := s.Tick()
	assert.False(t, fired)
	assert.Equal(t, 1, calls)
}

func TestAdvanceCatchUpSubmits(t *testing.T) {
	s := NewSession(fixture(2), 10)

	_, fired := s.Advance(4)
	assert.False(t, fired)
	assert.Equal(t, 6, s.Remaining())

	res, fired := s.Advance(100)
	assert.True(t, fired)
	assert.Equal(t, 2, res.Total)
	assert.True(t, s.Submitted())
}

func TestSaveAndNextAtLastQuestion(t *testing.T) {
	s := NewSession(fixture(2), 60)
	_, err := s.SaveAndNext()
	require.NoError(t, err)
	before := s.Answers()

	require.NoError(t, s.Select("B2"))
	notice, err := s.SaveAndNext()
	require.NoError(t, err)

	assert.Equal(t, NoticeLastQuestion, notice)
	assert.Equal(t, 1, s.Current())
	after := s.Answers()
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, StatusAnswered, after[1].Status)
	assert.True(t, after[1].IsCorrect)
}

func TestSaveAndNextVisitsDestination(t *testing.T) {
	s := NewSession(fixture(3), 60)
	_, err := s.SaveAndNext()
	require.NoError(t, err)

	answers := s.Answers()
	assert.Equal(t, StatusNotAnswered, answers[1].Status)
	assert.Equal(t, StatusNotVisited, answers[2].Status)
	assert.Equal(t, Draft{}, s.Draft())
}

func TestSaveAndMarkForReview(t *testing.T) {
	s := NewSession(fixture(2), 60)
	require.NoError(t, s.Select("A1"))

	_, err := s.SaveAndMarkForReview()
	require.NoError(t, err)

	answers := s.Answers()
	assert.Equal(t, StatusAnsweredAndMarked, answers[0].Status)
	assert.False(t, answers[0].IsCorrect)

	require.NoError(t, s.NavigateToQuestion(0))
	assert.Equal(t, Draft{Response: "A1", Marked: true}, s.Draft())
}

func TestClearResponseOnlyTouchesDraft(t *testing.T) {
	s := NewSession(fixture(2), 60)
	require.NoError(t, s.Select("B1"))
	_, err := s.SaveAndNext()
	require.NoError(t, err)
	require.NoError(t, s.NavigateToQuestion(0))

	require.NoError(t, s.ClearResponse())
	assert.Equal(t, "", s.Draft().Response)
	assert.Equal(t, StatusAnswered, s.Answers()[0].Status)

	require.NoError(t, s.NavigateToQuestion(1))
	assert.Equal(t, StatusNotAnswered, s.Answers()[0].Status)
	assert.False(t, s.Answers()[0].IsCorrect)
}

func TestNavigateOutOfRangeIsRejected(t *testing.T) {
	s := NewSession(fixture(3), 60)
	require.NoError(t, s.Select("B1"))
	before := s.Snapshot()

	assert.ErrorIs(t, s.NavigateToQuestion(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.NavigateToQuestion(-1), ErrIndexOutOfRange)
	assert.Equal(t, before, s.Snapshot())
}

func TestNavigateCommitsAndVisits(t *testing.T) {
	s := NewSession(fixture(4), 60)
	require.NoError(t, s.Select("C1"))

	require.NoError(t, s.NavigateToQuestion(3))

	answers := s.Answers()
	assert.Equal(t, StatusAnswered, answers[0].Status)
	assert.Equal(t, StatusNotVisited, answers[1].Status)
	assert.Equal(t, StatusNotAnswered, answers[3].Status)
	assert.Equal(t, 3, s.Current())
}

func TestSelectRejectsUnknownOption(t *testing.T) {
	s := NewSession(fixture(1), 60)
	assert.ErrorIs(t, s.Select("B2"), ErrUnknownOption)
	assert.Equal(t, "", s.Draft().Response)
}

func TestOperationsAfterSubmit(t *testing.T) {
	s := NewSession(fixture(2), 60)
	_, ok := s.Submit()
	require.True(t, ok)

	assert.ErrorIs(t, s.Select("A1"), ErrSessionSubmitted)
	assert.ErrorIs(t, s.SetMarkedForReview(true), ErrSessionSubmitted)
	assert.ErrorIs(t, s.ClearResponse(), ErrSessionSubmitted)
	assert.ErrorIs(t, s.NavigateToQuestion(1), ErrSessionSubmitted)
	_, err := s.SaveAndNext()
	assert.ErrorIs(t, err, ErrSessionSubmitted)
	_, err = s.SaveAndMarkForReview()
	assert.ErrorIs(t, err, ErrSessionSubmitted)
}

func TestSubmitCommitsDraft(t *testing.T) {
	s := NewSession(fixture(2), 60)
	require.NoError(t, s.Select("B1"))

	res, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, "B1", res.Answers[0].Answer)
}

func TestCommitHook(t *testing.T) {
	var committed []int
	s := NewSession(fixture(3), 60, WithCommitHook(func(i int, q Question, a AnswerState) {
		committed = append(committed, i)
		assert.Equal(t, fmt.Sprintf("q%d", i+1), q.ID)
	}))

	_, _ = s.SaveAndNext()
	require.NoError(t, s.NavigateToQuestion(0))
	_, _ = s.Submit()

	assert.Equal(t, []int{0, 1, 0}, committed)
}

func TestAnswersStayAligned(t *testing.T) {
	s := NewSession(fixture(4), 60)
	ops := []func(){
		func() { _ = s.Select("A1") },
		func() { _, _ = s.SaveAndNext() },
		func() { _ = s.NavigateToQuestion(3) },
		func() { _ = s.NavigateToQuestion(9) },
		func() { _, _ = s.SaveAndMarkForReview() },
		func() { _ = s.ClearResponse() },
		func() { _, _ = s.Submit() },
	}
	for _, op := range ops {
		op()
		assert.Len(t, s.Answers(), 4)
		for i, a := range s.Answers() {
			q := s.Questions()[i]
			assert.Equal(t, a.HasResponse() && q.IsCorrect(a.Response), a.IsCorrect)
		}
	}
}

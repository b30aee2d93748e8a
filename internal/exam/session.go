// Package exam holds the exam-session state machine: per-question answer
// tracking, the controller operations a candidate performs, the countdown
// that forces submission and the derived palette and result. It does no IO;
// the service layer stores and restores sessions through Snapshot.
package exam

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySession     = errors.New("session has no questions")
	ErrIndexOutOfRange  = errors.New("question index out of range")
	ErrSessionSubmitted = errors.New("session already submitted")
	ErrUnknownOption    = errors.New("option does not belong to the current question")
	ErrCorruptSnapshot  = errors.New("snapshot is inconsistent")
)

// Notice is a non-fatal message produced by an operation.
type Notice string

const (
	NoticeLastQuestion Notice = "last-question"
	NoticeTimeUp       Notice = "time-up"
)

// Message returns the human readable text of a notice.
func (n Notice) Message() string {
	switch n {
	case NoticeLastQuestion:
		return "You are at the last question."
	case NoticeTimeUp:
		return "Time is up. Your answers were submitted."
	default:
		return string(n)
	}
}

// Draft is the uncommitted edit of the current question.
type Draft struct {
	Response string `json:"response"`
	Marked   bool   `json:"marked"`
}

// Option configures a Session.
type Option func(*Session)

// WithSubmitHook registers fn to run once, on the terminal transition.
func WithSubmitHook(fn func(Result)) Option {
	return func(s *Session) { s.onSubmit = fn }
}

// WithCommitHook registers fn to run every time a draft is committed.
func WithCommitHook(fn func(index int, q Question, state AnswerState)) Option {
	return func(s *Session) { s.onCommit = fn }
}

// Session is one candidate's pass through an ordered list of questions.
// It is not safe for concurrent use.
type Session struct {
	questions []Question
	answers   []AnswerState
	current   int
	draft     Draft
	countdown *Countdown
	result    *Result

	onSubmit func(Result)
	onCommit func(int, Question, AnswerState)
}

// NewSession dedupes questions by id and starts a session with a countdown
// of seconds. Every question starts not-visited except the first, which is
// shown immediately and therefore starts not-answered. A session started
// with no time left is submitted before it is returned.
func NewSession(questions []Question, seconds int, opts ...Option) *Session {
	qs := Dedupe(questions)

	answers := make([]AnswerState, len(qs))
	for i := range answers {
		answers[i] = AnswerState{Status: StatusNotVisited}
	}
	if len(answers) > 0 {
		answers[0].Status = StatusNotAnswered
	}

	s := &Session{
		questions: qs,
		answers:   answers,
		countdown: NewCountdown(seconds),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.countdown.Expired() {
		s.Submit()
	}
	return s
}

// Empty reports whether the session has no questions.
func (s *Session) Empty() bool { return len(s.questions) == 0 }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Current returns the index of the question on screen.
func (s *Session) Current() int { return s.current }

// CurrentQuestion returns the question on screen.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Empty() {
		return Question{}, false
	}
	return s.questions[s.current], true
}

// Questions returns a copy of the question list.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the committed answer states.
func (s *Session) Answers() []AnswerState {
	out := make([]AnswerState, len(s.answers))
	copy(out, s.answers)
	return out
}

// Draft returns the uncommitted edit of the current question.
func (s *Session) Draft() Draft { return s.draft }

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int { return s.countdown.Remaining() }

// Submitted reports whether the session has reached its terminal state.
func (s *Session) Submitted() bool { return s.result != nil }

// Result returns the final result once the session is submitted.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) guard() error {
	if s.result != nil {
		return ErrSessionSubmitted
	}
	if s.Empty() {
		return ErrEmptySession
	}
	return nil
}

// Select sets the draft response of the current question. The option must
// be one of the question's option texts.
func (s *Session) Select(option string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.questions[s.current].OptionIndex(option) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	s.draft.Response = option
	return nil
}

// SetMarkedForReview sets the draft review flag of the current question.
func (s *Session) SetMarkedForReview(marked bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.draft.Marked = marked
	return nil
}

// ClearResponse empties the draft response. The committed state is left
// alone until the next save, navigation or submit.
func (s *Session) ClearResponse() error {
	if err := s.guard(); err != nil {
		return err
	}
	s.draft.Response = ""
	return nil
}

// SaveAndNext commits the draft and moves to the next question. On the last
// question the index stays put and NoticeLastQuestion is returned.
func (s *Session) SaveAndNext() (Notice, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	s.commit()
	return s.advance(), nil
}

// SaveAndMarkForReview is SaveAndNext with the review flag forced on.
func (s *Session) SaveAndMarkForReview() (Notice, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	s.draft.Marked = true
	s.commit()
	return s.advance(), nil
}

// NavigateToQuestion commits the draft and jumps to index. An index outside
// the question list is rejected before anything changes.
func (s *Session) NavigateToQuestion(index int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.questions))
	}
	s.commit()
	s.visit(index)
	return nil
}

// Submit commits the draft, computes the result and makes the session
// terminal. The second return value is false when the session had already
// been submitted, in which case the stored result is returned unchanged.
func (s *Session) Submit() (Result, bool) {
	if s.result != nil {
		return *s.result, false
	}
	if !s.Empty() {
		s.commit()
	}
	s.countdown.Stop()

	res := Score(s.questions, s.answers)
	s.result = &res
	if s.onSubmit != nil {
		s.onSubmit(res)
	}
	return res, true
}

// Tick advances the countdown one second and submits when it expires.
func (s *Session) Tick() (Result, bool) {
	return s.Advance(1)
}

// Advance applies n countdown ticks at once. When one of them expires the
// countdown the session is submitted and the result returned with true.
func (s *Session) Advance(n int) (Result, bool) {
	if s.result != nil || n <= 0 {
		return Result{}, false
	}
	if !s.countdown.Advance(n) {
		return Result{}, false
	}
	return s.Submit()
}

func (s *Session) commit() {
	q := s.questions[s.current]
	state := DeriveAnswerState(q, s.draft.Response, s.draft.Marked, "")
	s.answers[s.current] = state
	if s.onCommit != nil {
		s.onCommit(s.current, q, state)
	}
}

func (s *Session) advance() Notice {
	if s.current >= len(s.questions)-1 {
		return NoticeLastQuestion
	}
	s.visit(s.current + 1)
	return ""
}

// visit moves to index, applying the first-visit transition and reloading
// the draft from what was committed there.
func (s *Session) visit(index int) {
	if s.answers[index].Status == StatusNotVisited {
		s.answers[index] = DeriveAnswerState(s.questions[index], s.answers[index].Response, false, StatusNotAnswered)
	}
	s.current = index
	s.loadDraft()
}

func (s *Session) loadDraft() {
	committed := s.answers[s.current]
	s.draft = Draft{
		Response: committed.Response,
		Marked:   committed.Status.Marked(),
	}
}

package exam

import "fmt"

// Snapshot is the serialisable form of a Session.
type Snapshot struct {
	Questions []Question    `json:"questions"`
	Answers   []AnswerState `json:"answers"`
	Current   int           `json:"current"`
	Draft     Draft         `json:"draft"`
	Remaining int           `json:"remaining"`
	Expired   bool          `json:"expired"`
	Result    *Result       `json:"result,omitempty"`
}

// Snapshot captures the full state of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Questions: s.Questions(),
		Answers:   s.Answers(),
		Current:   s.current,
		Draft:     s.draft,
		Remaining: s.countdown.remaining,
		Expired:   s.countdown.expired,
	}
	if s.result != nil {
		res := *s.result
		snap.Result = &res
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Hooks are not part of a
// snapshot and are passed again as options.
func Restore(snap Snapshot, opts ...Option) (*Session, error) {
	if len(snap.Answers) != len(snap.Questions) {
		return nil, fmt.Errorf("%w: %d answers for %d questions", ErrCorruptSnapshot, len(snap.Answers), len(snap.Questions))
	}
	if len(snap.Questions) > 0 && (snap.Current < 0 || snap.Current >= len(snap.Questions)) {
		return nil, fmt.Errorf("%w: current index %d", ErrCorruptSnapshot, snap.Current)
	}
	for i, a := range snap.Answers {
		if !a.Status.Valid() {
			return nil, fmt.Errorf("%w: status %q at %d", ErrCorruptSnapshot, a.Status, i)
		}
	}

	s := &Session{
		questions: append([]Question(nil), snap.Questions...),
		answers:   append([]AnswerState(nil), snap.Answers...),
		current:   snap.Current,
		draft:     snap.Draft,
		countdown: &Countdown{remaining: snap.Remaining, expired: snap.Expired},
	}
	if s.questions == nil {
		s.questions = []Question{}
		s.answers = []AnswerState{}
	}
	// Correctness is derived from the response, never trusted from storage.
	for i := range s.answers {
		a := &s.answers[i]
		a.IsCorrect = hasResponse(a.Response) && s.questions[i].IsCorrect(a.Response)
	}
	if snap.Result != nil {
		res := *snap.Result
		s.result = &res
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

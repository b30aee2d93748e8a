package exam

import "strings"

// Status is the tracking state of one question in a session.
type Status string

const (
	StatusNotVisited        Status = "not-visited"
	StatusNotAnswered       Status = "not-answered"
	StatusMarkedForReview   Status = "marked-for-review"
	StatusAnswered          Status = "answered"
	StatusAnsweredAndMarked Status = "answered-and-marked"
)

// Statuses lists every status in palette legend order.
var Statuses = []Status{
	StatusAnswered,
	StatusNotAnswered,
	StatusNotVisited,
	StatusMarkedForReview,
	StatusAnsweredAndMarked,
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Marked reports whether the question carries the review flag.
func (s Status) Marked() bool {
	return s == StatusMarkedForReview || s == StatusAnsweredAndMarked
}

// AnswerState is the committed record for one question.
type AnswerState struct {
	Response  string `json:"response"`
	Status    Status `json:"status"`
	IsCorrect bool   `json:"is_correct"`
}

// HasResponse reports whether a non-blank response is recorded.
func (a AnswerState) HasResponse() bool {
	return hasResponse(a.Response)
}

func hasResponse(response string) bool {
	return strings.TrimSpace(response) != ""
}

// DeriveAnswerState computes the AnswerState of q for the given response
// and review flag. A non-empty override replaces the derived status; it is
// only used for the first-visit transition. IsCorrect is always derived.
func DeriveAnswerState(q Question, response string, marked bool, override Status) AnswerState {
	answered := hasResponse(response)

	var status Status
	switch {
	case override != "":
		status = override
	case answered && marked:
		status = StatusAnsweredAndMarked
	case answered:
		status = StatusAnswered
	case marked:
		status = StatusMarkedForReview
	default:
		status = StatusNotAnswered
	}

	return AnswerState{
		Response:  response,
		Status:    status,
		IsCorrect: answered && q.IsCorrect(response),
	}
}

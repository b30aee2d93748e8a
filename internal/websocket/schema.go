package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect   Action = "select"
	ActionReview   Action = "review"
	ActionClear    Action = "clear"
	ActionSaveNext Action = "save_next"
	ActionSaveMark Action = "save_mark"
	ActionNavigate Action = "navigate"
	ActionSubmit   Action = "submit"
	ActionSync     Action = "sync"
	ActionPing     Action = "ping"
)

// Request is one client message. Only the fields of its action are read.
type Request struct {
	Action Action `json:"action"`
	Option string `json:"option,omitempty"` // select
	Marked *bool  `json:"marked,omitempty"` // review
	Index  *int   `json:"index,omitempty"`  // navigate
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventTick      Event = "tick"
	EventNotice    Event = "notice"
	EventSubmitted Event = "submitted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// StateResponse carries the full attempt view after a change.
type StateResponse struct {
	Event Event `json:"event"`
	State any   `json:"state"`
}

// TickResponse is sent once per second while the attempt runs.
type TickResponse struct {
	Event     Event `json:"event"`
	Remaining int   `json:"remaining_seconds"`
}

// NoticeResponse is a non-fatal message such as reaching the last question.
type NoticeResponse struct {
	Event   Event  `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmittedResponse carries the final result.
type SubmittedResponse struct {
	Event  Event `json:"event"`
	Result any   `json:"result"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

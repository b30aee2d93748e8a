package config

type WorkerKeyStruct struct {
	PersistAttemptsQueue string
	PersistAnswersQueue  string
	// AttemptDeadlines is a sorted set of running attempt ids scored by
	// their deadline in unix seconds.
	AttemptDeadlines string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAttemptsQueue: "persist_attempts_queue",
	PersistAnswersQueue:  "persist_answers_queue",
	AttemptDeadlines:     "attempt_deadlines",
}

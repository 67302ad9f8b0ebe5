package domain

// transitions enumerates every legal job status transition.
// Operator-triggered transitions are checked against the narrower
// operatorTransitions table below; worker-triggered transitions (claim, complete, reschedule, fail, crash
// recovery) are driven by the Worker Tick itself but still only ever
// produce edges present here.
var transitions = map[Status]map[Status]bool{
	StatusScheduled: {
		StatusRunning:   true, // worker claims
		StatusPaused:    true, // operator
		StatusCancelled: true, // operator
	},
	StatusPaused: {
		StatusScheduled: true, // operator resume
		StatusCancelled: true, // operator
	},
	StatusRunning: {
		StatusCompleted: true, // success, one_time
		StatusScheduled: true, // success+interval reschedule, retry, or crash recovery
		StatusFailed:    true, // failure, retries exhausted
		StatusCancelled: true, // operator
	},
}

// CanTransition reports whether from -> to is a legal Job transition.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// Transition validates from -> to, returning ErrInvalidTransition if the
// move is not in the table — including any attempt to leave a terminal
// status.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// operatorTransitions is the subset of transitions an operator (the
// Scheduler API's UpdateStatus operation) may request directly. Worker-only
// edges (claim, the post-execution outcomes) are excluded even though they
// appear in the full transition table, because an operator request never
// carries "a job just finished running" semantics.
var operatorTransitions = map[Status]map[Status]bool{
	StatusScheduled: {StatusPaused: true, StatusCancelled: true},
	StatusPaused:    {StatusScheduled: true, StatusCancelled: true},
	StatusRunning:   {StatusCancelled: true},
}

// CanOperatorTransition reports whether an operator may move a Job from
// `from` directly to `to` via the Scheduler API.
func CanOperatorTransition(from, to Status) bool {
	return operatorTransitions[from][to]
}

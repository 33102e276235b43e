package model

type SessionStatus string

const (
	SessionStatusWaiting  SessionStatus = "waiting"
	SessionStatusStarted  SessionStatus = "started"
	SessionStatusFinished SessionStatus = "finished"
)

// Assigned reports whether targets exist for this status. Assignments are
// written on the waiting -> started transition and survive finishing.
func (s SessionStatus) Assigned() bool {
	return s == SessionStatusStarted || s == SessionStatusFinished
}

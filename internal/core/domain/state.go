package domain

import "time"

// State represents the lifecycle state of a client's session manager.
type State string

const (
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// Reason names the operation that caused a transition.
type Reason string

const (
	ReasonRestore  Reason = "restore"
	ReasonLogin    Reason = "login"
	ReasonRegister Reason = "register"
	ReasonLogout   Reason = "logout"
	ReasonProfile  Reason = "profile"
	ReasonClose    Reason = "close"
)

// validTransitions defines the allowed state machine transitions.
// Loading is only ever left, never re-entered.
var validTransitions = map[State][]State{
	StateLoading:         {StateUnauthenticated, StateAuthenticated},
	StateUnauthenticated: {StateUnauthenticated, StateAuthenticated},
	StateAuthenticated:   {StateUnauthenticated, StateAuthenticated},
}

// CanTransitionTo reports whether a transition from current state to next is valid.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Snapshot is a point-in-time view of a session manager, safe to hand to views.
type Snapshot struct {
	State   State
	Session *Session
}

// IsAuthenticated reports whether a Session is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Session != nil
}

// IsLoading reports whether the restore at startup is still in flight.
func (s Snapshot) IsLoading() bool {
	return s.State == StateLoading
}

// Transition records a single state change of a client's session manager.
type Transition struct {
	ClientID string
	From     State
	To       State
	Reason   Reason
	UserID   string
	Username string
	At       time.Time
}

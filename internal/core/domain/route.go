package domain

// Access classifies who may render a view.
type Access int

const (
	// AccessPublic views render in every resolved state.
	AccessPublic Access = iota
	// AccessProtected views require an authenticated session.
	AccessProtected
	// AccessGuestOnly views (login, signup) are only for unauthenticated clients.
	AccessGuestOnly
)

// Route is a navigation target known to the view router.
type Route struct {
	Name    string
	Path    string
	Section string
	Access  Access
}

// Verdict is the outcome kind of a guard decision.
type Verdict string

const (
	VerdictAdmit    Verdict = "admit"
	VerdictRedirect Verdict = "redirect"
	VerdictPending  Verdict = "pending"
)

// Decision is the guard's answer for one navigation.
type Decision struct {
	Verdict  Verdict
	Location string
}

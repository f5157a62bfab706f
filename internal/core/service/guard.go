package service

import "github.com/procurecontract/session-service/internal/core/domain"

const (
	DefaultLoginPath = "/login"
	DefaultHomePath  = "/"
)

// Guard decides whether a navigation may render given a session state.
// It holds no session state of its own and has no side effects.
type Guard struct {
	LoginPath string
	HomePath  string
}

// NewGuard returns a Guard redirecting to loginPath and homePath, falling back
// to the defaults when either is empty.
func NewGuard(loginPath, homePath string) Guard {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	if homePath == "" {
		homePath = DefaultHomePath
	}
	return Guard{LoginPath: loginPath, HomePath: homePath}
}

// Decide evaluates one navigation to route.
//
//	Loading                      → pending
//	Unauthenticated + protected  → redirect to login
//	Authenticated   + guest-only → redirect to home
//	otherwise                    → admit
func (g Guard) Decide(state domain.State, route domain.Route) domain.Decision {
	if state == domain.StateLoading {
		return domain.Decision{Verdict: domain.VerdictPending}
	}

	authenticated := state == domain.StateAuthenticated
	switch route.Access {
	case domain.AccessProtected:
		if !authenticated {
			return domain.Decision{Verdict: domain.VerdictRedirect, Location: g.LoginPath}
		}
	case domain.AccessGuestOnly:
		if authenticated {
			return domain.Decision{Verdict: domain.VerdictRedirect, Location: g.HomePath}
		}
	}
	return domain.Decision{Verdict: domain.VerdictAdmit}
}

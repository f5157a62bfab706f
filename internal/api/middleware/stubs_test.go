package middleware

import (
	"context"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

type stubManager struct {
	snap domain.Snapshot
}

func (s *stubManager) Snapshot() domain.Snapshot { return s.snap }

func (s *stubManager) Login(context.Context, string, string) (*domain.Session, error) {
	return nil, nil
}

func (s *stubManager) Register(context.Context, domain.Registration) (*domain.Session, error) {
	return nil, nil
}

func (s *stubManager) Logout(context.Context) {}

func (s *stubManager) UpdateProfile(context.Context, domain.ProfileUpdate) (*domain.Session, error) {
	return nil, nil
}

type stubRegistry struct {
	managers map[string]*stubManager
	acquired []string
	minted   []string
}

func (r *stubRegistry) Acquire(_ context.Context, clientID string) ports.SessionManager {
	r.acquired = append(r.acquired, clientID)
	if m, ok := r.managers[clientID]; ok {
		return m
	}
	return &stubManager{snap: domain.Snapshot{State: domain.StateUnauthenticated}}
}

func (r *stubRegistry) AcquireNew(clientID string) ports.SessionManager {
	r.minted = append(r.minted, clientID)
	return &stubManager{snap: domain.Snapshot{State: domain.StateUnauthenticated}}
}

func (r *stubRegistry) List() []ports.ClientSession { return nil }

func authenticated(role domain.Role) *stubManager {
	return &stubManager{snap: domain.Snapshot{
		State:   domain.StateAuthenticated,
		Session: &domain.Session{UserID: "1", Username: "admin", Role: role},
	}}
}

type fixedDecider domain.Decision

func (d fixedDecider) Decide(domain.State, domain.Route) domain.Decision {
	return domain.Decision(d)
}

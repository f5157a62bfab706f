package ports

import (
	"context"

	"github.com/procurecontract/session-service/internal/core/domain"
)

// Observer is notified after every transition of a session manager.
type Observer func(domain.Transition)

// SessionManager is the collaborator contract exposed to views.
type SessionManager interface {
	Snapshot() domain.Snapshot
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.Session, error)
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Session, error)
}

// ClientSession pairs a client id with the snapshot of its manager.
type ClientSession struct {
	ClientID string
	Snapshot domain.Snapshot
}

// SessionRegistry owns one SessionManager per client instance.
type SessionRegistry interface {
	Acquire(ctx context.Context, clientID string) SessionManager
	// AcquireNew is Acquire for a client id minted by the server for this
	// request; the manager starts Unauthenticated without reading the backend.
	AcquireNew(clientID string) SessionManager
	List() []ClientSession
}

package ports

import (
	"context"

	"github.com/procurecontract/session-service/internal/core/domain"
)

// AuthProvider validates credentials against an account source.
// It returns domain.ErrInvalidCredentials when the pair is not recognised.
type AuthProvider interface {
	Validate(ctx context.Context, username, password string) (*domain.Session, error)
}

// TokenIssuer synthesizes the opaque token persisted alongside a Session.
type TokenIssuer interface {
	Issue(session *domain.Session) (string, error)
}

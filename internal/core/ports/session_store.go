package ports

import (
	"context"

	"github.com/procurecontract/session-service/internal/core/domain"
)

// SessionStore persists the serialized Session and its token.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	// Load returns (nil, nil) when no session is stored and wraps
	// domain.ErrCorruptedLocalState when the stored value is unreadable.
	Load(ctx context.Context) (*domain.Session, error)
	Clear(ctx context.Context) error
}

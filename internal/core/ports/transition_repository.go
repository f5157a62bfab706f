package ports

import (
	"context"

	"github.com/procurecontract/session-service/internal/core/domain"
)

// TransitionRepository persists session transitions to the audit trail.
type TransitionRepository interface {
	InsertTransition(ctx context.Context, t domain.Transition) error
}

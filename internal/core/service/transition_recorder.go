package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// TransitionRecorder persists session transitions to the audit trail.
type TransitionRecorder struct {
	repo ports.TransitionRepository
	log  zerolog.Logger
}

// NewTransitionRecorder returns a TransitionRecorder writing to repo.
func NewTransitionRecorder(repo ports.TransitionRepository, log zerolog.Logger) *TransitionRecorder {
	return &TransitionRecorder{repo: repo, log: log}
}

// Record validates and persists a single transition.
func (s *TransitionRecorder) Record(ctx context.Context, t domain.Transition) error {
	if t.ClientID == "" {
		return fmt.Errorf("record transition: missing client id")
	}
	if err := s.repo.InsertTransition(ctx, t); err != nil {
		return fmt.Errorf("record transition: %w", err)
	}

	s.log.Debug().
		Str("client_id", t.ClientID).
		Str("from", string(t.From)).
		Str("to", string(t.To)).
		Str("reason", string(t.Reason)).
		Msg("session transition recorded")
	return nil
}

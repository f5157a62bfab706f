package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// Keys under which a client's session is persisted.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// SessionStore implements ports.SessionStore on top of a client-local key-value namespace.
type SessionStore struct {
	kv ports.KeyValueStore
}

// NewSessionStore returns a SessionStore writing into kv.
func NewSessionStore(kv ports.KeyValueStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save serializes the session under KeyUser and its token under KeyToken.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("save session: encode: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.kv.Set(ctx, KeyToken, session.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load reads both keys back. A missing key yields (nil, nil).
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	rawUser, err := s.get(ctx, KeyUser)
	if err != nil || rawUser == "" {
		return nil, err
	}
	token, err := s.get(ctx, KeyToken)
	if err != nil || token == "" {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(rawUser), &session); err != nil {
		return nil, fmt.Errorf("load session: %w: %v", domain.ErrCorruptedLocalState, err)
	}
	if !session.Valid() {
		return nil, fmt.Errorf("load session: %w: incomplete identity", domain.ErrCorruptedLocalState)
	}
	session.Token = token
	return &session, nil
}

// Clear removes both keys. Removing absent keys is not an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyUser, KeyToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubKV struct {
	mu      sync.Mutex
	data    map[string]string
	gets    int
	sets    int
	deletes int
	setErr  error
	getErr  error
	delErr  error
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string]string)}
}

func (s *stubKV) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *stubKV) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.delErr != nil {
		return s.delErr
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stubKV) accesses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets + s.sets + s.deletes
}

func (s *stubKV) value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

type stubBackend struct {
	mu         sync.Mutex
	namespaces map[string]*stubKV
	pingErr    error
}

func newStubBackend() *stubBackend {
	return &stubBackend{namespaces: make(map[string]*stubKV)}
}

func (b *stubBackend) Namespace(clientID string) ports.KeyValueStore {
	return b.kv(clientID)
}

func (b *stubBackend) kv(clientID string) *stubKV {
	b.mu.Lock()
	defer b.mu.Unlock()
	kv, ok := b.namespaces[clientID]
	if !ok {
		kv = newStubKV()
		b.namespaces[clientID] = kv
	}
	return kv
}

func (b *stubBackend) Ping(context.Context) error { return b.pingErr }

type stubTokens struct {
	issued int
	err    error
}

func (s *stubTokens) Issue(session *domain.Session) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued++
	return "token-" + session.Username, nil
}

type stubProvider struct {
	calls int
}

func (p *stubProvider) Validate(context.Context, string, string) (*domain.Session, error) {
	p.calls++
	return nil, domain.ErrInvalidCredentials
}

var errBackendDown = errors.New("backend down")

func testProvider(t *testing.T) *BuiltinProvider {
	t.Helper()
	p, err := NewBuiltinProvider(DefaultAccounts, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("builtin provider: %v", err)
	}
	return p
}

func newTestManager(t *testing.T, kv *stubKV) *Manager {
	t.Helper()
	return NewManager("client-1", NewSessionStore(kv), testProvider(t), &stubTokens{}, zerolog.Nop())
}

func newRestoredManager(t *testing.T, kv *stubKV) *Manager {
	t.Helper()
	m := newTestManager(t, kv)
	m.Restore(context.Background())
	return m
}

func strPtr(s string) *string { return &s }

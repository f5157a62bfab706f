package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// Manager owns the session of one client instance and drives its state machine.
//
// All mutations hold mu across the store write and the in-memory update so the
// two never diverge. Observers run after mu is released, serialized by
// notifyMu so they see transitions in the order they happened. Observers must
// not call Login, Register, Logout or UpdateProfile on the same manager.
type Manager struct {
	clientID string
	store    ports.SessionStore
	provider ports.AuthProvider
	tokens   ports.TokenIssuer
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string

	mu      sync.Mutex
	state   domain.State
	session *domain.Session

	notifyMu sync.Mutex

	obsMu     sync.Mutex
	observers map[uint64]ports.Observer
	nextObs   uint64
}

// NewManager returns a Manager in the Loading state. Call Restore to resolve it.
func NewManager(
	clientID string,
	store ports.SessionStore,
	provider ports.AuthProvider,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		clientID:  clientID,
		store:     store,
		provider:  provider,
		tokens:    tokens,
		log:       log.With().Str("client_id", clientID).Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
		state:     domain.StateLoading,
		observers: make(map[uint64]ports.Observer),
	}
}

// Subscribe registers obs for every future transition and returns a function
// that removes it again.
func (m *Manager) Subscribe(obs ports.Observer) func() {
	m.obsMu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = obs
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

// Snapshot returns the current state and a copy of the session.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Snapshot{State: m.state, Session: m.session.Clone()}
}

// Restore resolves the initial Loading state from the session store.
// Load failures are never returned: local state is cleared and the manager
// settles on Unauthenticated. If an explicit operation completed while the
// load was in flight, its result wins and the restored value is discarded.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	if m.state != domain.StateLoading {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	session, loadErr := m.store.Load(ctx)

	m.mu.Lock()
	if m.state != domain.StateLoading {
		m.mu.Unlock()
		return
	}
	if loadErr != nil {
		m.log.Warn().Err(loadErr).Msg("session restore failed, clearing local state")
		if err := m.store.Clear(ctx); err != nil {
			m.log.Error().Err(err).Msg("failed to clear local state after restore failure")
		}
		session = nil
	}
	from := m.state
	if session != nil {
		m.state = domain.StateAuthenticated
		m.session = session
	} else {
		m.state = domain.StateUnauthenticated
	}
	m.commitLocked(from, domain.ReasonRestore, m.session)
}

// settleEmpty resolves Loading to Unauthenticated without reading the store.
// It is used for clients that cannot have persisted state yet.
func (m *Manager) settleEmpty() {
	m.mu.Lock()
	if m.state != domain.StateLoading {
		m.mu.Unlock()
		return
	}
	m.state = domain.StateUnauthenticated
	m.commitLocked(domain.StateLoading, domain.ReasonRestore, nil)
}

// Login validates the credentials with the provider, persists the resulting
// session and moves to Authenticated. Blank input is rejected before any
// provider or store access.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if (domain.Credentials{Username: username, Password: password}).Blank() {
		return nil, domain.ErrMissingCredentials
	}

	session, err := m.provider.Validate(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			m.log.Info().Str("username", username).Msg("login rejected")
		}
		return nil, err
	}

	return m.authenticate(ctx, session, domain.ReasonLogin)
}

// Register synthesizes a new user-role session from reg and authenticates it.
// No uniqueness check is made against existing accounts.
func (m *Manager) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	if strings.TrimSpace(reg.Username) == "" {
		return nil, domain.ErrMissingCredentials
	}

	session := &domain.Session{
		UserID:      m.newID(),
		Username:    strings.TrimSpace(reg.Username),
		DisplayName: reg.DisplayName,
		Email:       reg.Email,
		Role:        domain.RoleUser,
	}
	return m.authenticate(ctx, session, domain.ReasonRegister)
}

// Logout clears the store and moves to Unauthenticated from any state.
// It has no failure mode; store errors are logged.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to clear local state on logout")
	}
	from, prev := m.state, m.session
	m.state = domain.StateUnauthenticated
	m.session = nil
	m.commitLocked(from, domain.ReasonLogout, prev)
}

// UpdateProfile merges update into the current session and re-persists it.
// Identity fields never change. Returns domain.ErrNoActiveSession unless
// the manager is Authenticated.
func (m *Manager) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Session, error) {
	m.mu.Lock()
	if m.state != domain.StateAuthenticated || m.session == nil {
		m.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}

	updated := m.session.Clone()
	updated.Apply(update)
	if err := m.store.Save(ctx, updated); err != nil {
		if rbErr := m.store.Save(ctx, m.session); rbErr != nil {
			m.log.Error().Err(rbErr).Msg("failed to roll back profile update")
		}
		m.mu.Unlock()
		return nil, fmt.Errorf("update profile: %w", err)
	}

	m.session = updated
	out := updated.Clone()
	m.commitLocked(domain.StateAuthenticated, domain.ReasonProfile, updated)
	return out, nil
}

// Close tears the manager down: observers get a final transition, then are
// dropped together with the in-memory session. Persisted state is kept.
func (m *Manager) Close() {
	m.mu.Lock()
	from, prev := m.state, m.session
	m.state = domain.StateUnauthenticated
	m.session = nil
	m.commitLocked(from, domain.ReasonClose, prev)

	m.obsMu.Lock()
	m.observers = make(map[uint64]ports.Observer)
	m.obsMu.Unlock()
}

func (m *Manager) authenticate(ctx context.Context, session *domain.Session, reason domain.Reason) (*domain.Session, error) {
	token, err := m.tokens.Issue(session)
	if err != nil {
		return nil, fmt.Errorf("%s: issue token: %w", reason, err)
	}
	session.Token = token

	m.mu.Lock()
	from := m.state
	if err := m.store.Save(ctx, session); err != nil {
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.log.Error().Err(clearErr).Msg("failed to clear partial session state")
		}
		m.state = domain.StateUnauthenticated
		m.session = nil
		m.commitLocked(from, reason, nil)
		return nil, fmt.Errorf("%s: %w", reason, err)
	}

	m.state = domain.StateAuthenticated
	m.session = session
	out := session.Clone()
	m.commitLocked(from, reason, session)

	m.log.Info().
		Str("username", session.Username).
		Str("role", string(session.Role)).
		Str("reason", string(reason)).
		Msg("session authenticated")
	return out, nil
}

// commitLocked must be called with mu held; it releases mu and notifies observers.
// subject is the session the transition concerns, if any.
func (m *Manager) commitLocked(from domain.State, reason domain.Reason, subject *domain.Session) {
	if !from.CanTransitionTo(m.state) {
		m.log.Error().
			Str("from", string(from)).
			Str("to", string(m.state)).
			Msg("unexpected session transition")
	}

	t := domain.Transition{
		ClientID: m.clientID,
		From:     from,
		To:       m.state,
		Reason:   reason,
		At:       m.now().UTC(),
	}
	if subject != nil {
		t.UserID = subject.UserID
		t.Username = subject.Username
	}

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	m.obsMu.Lock()
	observers := make([]ports.Observer, 0, len(m.observers))
	for _, obs := range m.observers {
		observers = append(observers, obs)
	}
	m.obsMu.Unlock()

	for _, obs := range observers {
		obs(t)
	}
}

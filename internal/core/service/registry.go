package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

const (
	defaultIdleTimeout = 30 * time.Minute
	defaultMaxClients  = 10000
	restoreTimeout     = 5 * time.Second
)

// RegistryOptions bounds the lifetime and number of in-memory managers.
type RegistryOptions struct {
	// IdleTimeout is how long an unused manager stays in memory. <= 0 selects 30 minutes.
	IdleTimeout time.Duration
	// MaxClients caps the live managers; the least recently used one is
	// closed to make room. <= 0 selects 10000.
	MaxClients int
}

type clientEntry struct {
	manager  *Manager
	lastSeen time.Time
}

// Registry owns one Manager per client instance. A manager is constructed and
// restored on the first request of its client and closed once idle.
type Registry struct {
	backend     ports.StateBackend
	provider    ports.AuthProvider
	tokens      ports.TokenIssuer
	observers   []ports.Observer
	idleTimeout time.Duration
	maxClients  int
	log         zerolog.Logger
	now         func() time.Time

	mu      sync.Mutex
	clients map[string]*clientEntry
}

// NewRegistry wires every manager it creates to backend, provider and tokens,
// and subscribes observers to each of them.
func NewRegistry(
	backend ports.StateBackend,
	provider ports.AuthProvider,
	tokens ports.TokenIssuer,
	opts RegistryOptions,
	log zerolog.Logger,
	observers ...ports.Observer,
) *Registry {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.MaxClients <= 0 {
		opts.MaxClients = defaultMaxClients
	}
	return &Registry{
		backend:     backend,
		provider:    provider,
		tokens:      tokens,
		observers:   observers,
		idleTimeout: opts.IdleTimeout,
		maxClients:  opts.MaxClients,
		log:         log,
		now:         time.Now,
		clients:     make(map[string]*clientEntry),
	}
}

// Acquire returns the manager of clientID, creating and restoring it on first
// use. Concurrent callers for a client that is still restoring get the same
// manager in the Loading state.
func (r *Registry) Acquire(ctx context.Context, clientID string) ports.SessionManager {
	return r.acquire(ctx, clientID)
}

func (r *Registry) acquire(ctx context.Context, clientID string) *Manager {
	m, created := r.lookupOrCreate(clientID)
	if !created {
		return m
	}

	// A cancelled request must not look like a failed load: that would wipe
	// the client's persisted session.
	restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()
	m.Restore(restoreCtx)

	return m
}

// AcquireNew returns the manager of a client id minted for this request.
// Nothing can be persisted under such an id yet, so the manager settles on
// Unauthenticated without reading the backend.
func (r *Registry) AcquireNew(clientID string) ports.SessionManager {
	m, created := r.lookupOrCreate(clientID)
	if created {
		m.settleEmpty()
	}
	return m
}

// lookupOrCreate returns the manager of clientID, registering a new Loading
// one when absent. Making room for it may close the least recently used client.
func (r *Registry) lookupOrCreate(clientID string) (*Manager, bool) {
	r.mu.Lock()
	if e, ok := r.clients[clientID]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.manager, false
	}

	var evicted *Manager
	if len(r.clients) >= r.maxClients {
		evicted = r.evictOldestLocked()
	}

	m := NewManager(clientID, NewSessionStore(r.backend.Namespace(clientID)), r.provider, r.tokens, r.log)
	for _, obs := range r.observers {
		m.Subscribe(obs)
	}
	r.clients[clientID] = &clientEntry{manager: m, lastSeen: r.now()}
	r.mu.Unlock()

	if evicted != nil {
		evicted.Close()
		r.log.Debug().Str("client_id", evicted.clientID).Msg("client session evicted, registry full")
	}
	return m, true
}

// evictOldestLocked removes the least recently used client. r.mu must be held.
func (r *Registry) evictOldestLocked() *Manager {
	var oldestID string
	var oldest *clientEntry
	for id, e := range r.clients {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	if oldest == nil {
		return nil
	}
	delete(r.clients, oldestID)
	return oldest.manager
}

// List returns a snapshot of every live client, ordered by client id.
func (r *Registry) List() []ports.ClientSession {
	r.mu.Lock()
	managers := make(map[string]*Manager, len(r.clients))
	for id, e := range r.clients {
		managers[id] = e.manager
	}
	r.mu.Unlock()

	out := make([]ports.ClientSession, 0, len(managers))
	for id, m := range managers {
		out = append(out, ports.ClientSession{ClientID: id, Snapshot: m.Snapshot()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Len returns the number of live clients.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Release closes and forgets the manager of clientID, if any.
func (r *Registry) Release(clientID string) {
	r.mu.Lock()
	e, ok := r.clients[clientID]
	delete(r.clients, clientID)
	r.mu.Unlock()

	if ok {
		e.manager.Close()
	}
}

// Sweep closes every manager idle for longer than the idle timeout and
// returns how many were evicted.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	var idle []*Manager
	for id, e := range r.clients {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.manager)
			delete(r.clients, id)
		}
	}
	r.mu.Unlock()

	for _, m := range idle {
		m.Close()
	}
	return len(idle)
}

// Run sweeps idle clients periodically until ctx is cancelled, then closes
// the remaining managers.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug().Int("evicted", n).Msg("idle client sessions evicted")
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	entries := r.clients
	r.clients = make(map[string]*clientEntry)
	r.mu.Unlock()

	for _, e := range entries {
		e.manager.Close()
	}
}

// Authenticated reports how many live clients currently hold a session.
func (r *Registry) Authenticated() int {
	n := 0
	for _, cs := range r.List() {
		if cs.Snapshot.State == domain.StateAuthenticated {
			n++
		}
	}
	return n
}

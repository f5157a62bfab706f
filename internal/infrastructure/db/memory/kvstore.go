// Package memory provides a process-local state backend. State survives as
// long as the process does, which mirrors a browser's local storage lifetime
// closely enough for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// Backend keeps every client namespace in a single guarded map.
type Backend struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{data: make(map[string]map[string]string)}
}

// Namespace returns the key-value view of clientID.
func (b *Backend) Namespace(clientID string) ports.KeyValueStore {
	return &namespace{backend: b, clientID: clientID}
}

// Ping always succeeds.
func (b *Backend) Ping(context.Context) error { return nil }

type namespace struct {
	backend  *Backend
	clientID string
}

func (n *namespace) Get(_ context.Context, key string) (string, error) {
	n.backend.mu.RLock()
	defer n.backend.mu.RUnlock()

	v, ok := n.backend.data[n.clientID][key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (n *namespace) Set(_ context.Context, key, value string) error {
	n.backend.mu.Lock()
	defer n.backend.mu.Unlock()

	ns, ok := n.backend.data[n.clientID]
	if !ok {
		ns = make(map[string]string)
		n.backend.data[n.clientID] = ns
	}
	ns[key] = value
	return nil
}

func (n *namespace) Delete(_ context.Context, keys ...string) error {
	n.backend.mu.Lock()
	defer n.backend.mu.Unlock()

	ns, ok := n.backend.data[n.clientID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(ns, k)
	}
	if len(ns) == 0 {
		delete(n.backend.data, n.clientID)
	}
	return nil
}

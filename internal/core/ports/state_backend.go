package ports

import "context"

// KeyValueStore is a client-local string key-value namespace.
// Get returns domain.ErrKeyNotFound for absent keys; Delete ignores them.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// StateBackend hands out one KeyValueStore per client instance.
type StateBackend interface {
	Namespace(clientID string) KeyValueStore
	Ping(ctx context.Context) error
}

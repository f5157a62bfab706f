package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

const keyPrefix = "session"

// Backend stores client namespaces in Redis.
// Key format: session:<client_id>:<key>
//
// Reads and writes both refresh the TTL of the key they touch, so a client's
// state expires ttl after it was last used. A zero ttl keeps keys forever.
type Backend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBackend creates a Backend wrapping the given Redis client.
func NewBackend(client *redis.Client, ttl time.Duration) *Backend {
	if ttl < 0 {
		ttl = 0
	}
	return &Backend{client: client, ttl: ttl}
}

// Namespace returns the key-value view of clientID.
func (b *Backend) Namespace(clientID string) ports.KeyValueStore {
	return &namespace{backend: b, clientID: clientID}
}

// Ping checks Redis connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

type namespace struct {
	backend  *Backend
	clientID string
}

func (n *namespace) Get(ctx context.Context, key string) (string, error) {
	var cmd *redis.StringCmd
	if n.backend.ttl > 0 {
		cmd = n.backend.client.GetEx(ctx, n.key(key), n.backend.ttl)
	} else {
		cmd = n.backend.client.Get(ctx, n.key(key))
	}
	v, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (n *namespace) Set(ctx context.Context, key, value string) error {
	if err := n.backend.client.Set(ctx, n.key(key), value, n.backend.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (n *namespace) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, n.key(k))
	}
	if err := n.backend.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (n *namespace) key(key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, n.clientID, key)
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

const stateCollection = "client_state"

// Backend stores client namespaces in MongoDB, one document per client/key.
type Backend struct {
	db   *mongo.Database
	coll *mongo.Collection
}

// NewBackend creates a Backend on top of db.
func NewBackend(db *mongo.Database) *Backend {
	return &Backend{db: db, coll: db.Collection(stateCollection)}
}

type stateDoc struct {
	ClientID  string    `bson:"client_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the unique (client_id, key) index.
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	_, err := b.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "client_id", Value: 1}, {Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("client_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("create %s index: %w", stateCollection, err)
	}
	return nil
}

// Namespace returns the key-value view of clientID.
func (b *Backend) Namespace(clientID string) ports.KeyValueStore {
	return &namespace{coll: b.coll, clientID: clientID}
}

// Ping checks MongoDB connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.Client().Ping(ctx, nil)
}

type namespace struct {
	coll     *mongo.Collection
	clientID string
}

func (n *namespace) Get(ctx context.Context, key string) (string, error) {
	var doc stateDoc
	err := n.coll.FindOne(ctx, bson.M{"client_id": n.clientID, "key": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find %s: %w", key, err)
	}
	return doc.Value, nil
}

func (n *namespace) Set(ctx context.Context, key, value string) error {
	filter := bson.M{"client_id": n.clientID, "key": key}
	update := bson.M{"$set": stateDoc{
		ClientID:  n.clientID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}}

	if _, err := n.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (n *namespace) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	filter := bson.M{"client_id": n.clientID, "key": bson.M{"$in": keys}}
	if _, err := n.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

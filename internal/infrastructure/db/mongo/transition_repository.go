package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

const transitionCollection = "session_events"

// TransitionRepository implements ports.TransitionRepository using MongoDB.
type TransitionRepository struct {
	db *mongo.Database
}

// NewTransitionRepository creates a new TransitionRepository.
func NewTransitionRepository(db *mongo.Database) ports.TransitionRepository {
	return &TransitionRepository{db: db}
}

// InsertTransition persists a session transition to the session_events audit collection.
func (r *TransitionRepository) InsertTransition(ctx context.Context, t domain.Transition) error {
	_, err := r.db.Collection(transitionCollection).InsertOne(ctx, transitionDocument(t))
	return err
}

func transitionDocument(t domain.Transition) bson.M {
	doc := bson.M{
		"client_id":   t.ClientID,
		"from":        string(t.From),
		"to":          string(t.To),
		"reason":      string(t.Reason),
		"occurred_at": t.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if t.UserID != "" {
		doc["user"] = bson.M{
			"id":       t.UserID,
			"username": t.Username,
		}
	}
	return doc
}

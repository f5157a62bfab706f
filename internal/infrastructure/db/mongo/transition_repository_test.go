package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/procurecontract/session-service/internal/core/domain"
)

func TestTransitionDocument(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	doc := transitionDocument(domain.Transition{
		ClientID: "c1",
		From:     domain.StateUnauthenticated,
		To:       domain.StateAuthenticated,
		Reason:   domain.ReasonLogin,
		UserID:   "1",
		Username: "admin",
		At:       at,
	})

	if doc["client_id"] != "c1" || doc["from"] != "unauthenticated" || doc["to"] != "authenticated" || doc["reason"] != "login" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if got := doc["occurred_at"].(time.Time); !got.Equal(at) || got.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", got)
	}
	user, ok := doc["user"].(bson.M)
	if !ok || user["id"] != "1" || user["username"] != "admin" {
		t.Fatalf("unexpected user: %+v", doc["user"])
	}
}

func TestTransitionDocument_Anonymous(t *testing.T) {
	doc := transitionDocument(domain.Transition{ClientID: "c1", From: domain.StateLoading, To: domain.StateUnauthenticated})

	if _, ok := doc["user"]; ok {
		t.Fatalf("anonymous transitions must not carry a user")
	}
}

package handler

import (
	"net/http"
	"testing"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

func TestAdminHandler_Sessions(t *testing.T) {
	registry := &stubRegistry{sessions: []ports.ClientSession{
		{ClientID: "a", Snapshot: domain.Snapshot{State: domain.StateAuthenticated, Session: adminSession()}},
		{ClientID: "b", Snapshot: domain.Snapshot{State: domain.StateUnauthenticated}},
	}}
	c, rec := newContext(http.MethodGet, "/admin/sessions", "", nil)

	if err := NewAdminHandler(registry).Sessions(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if resp["total"] != float64(2) {
		t.Fatalf("expected 2 clients, got %v", resp["total"])
	}
	clients := resp["clients"].([]any)
	first := clients[0].(map[string]any)
	if first["client_id"] != "a" || first["state"] != "authenticated" {
		t.Fatalf("unexpected first client: %+v", first)
	}
	if _, ok := clients[1].(map[string]any)["user"]; ok {
		t.Fatalf("unauthenticated client must not carry a user")
	}
}

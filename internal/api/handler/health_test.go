package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "", nil)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected liveness response: %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
	_ = NewHealthDependenciesHandler(map[string]Pinger{"session_store": ok}).Readiness(c)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/health/ready", "", nil)
	_ = NewHealthDependenciesHandler(map[string]Pinger{"session_store": ok, "mongodb": down}).Readiness(c)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	resp := decode(t, rec)
	deps := resp["dependencies"].(map[string]any)
	if resp["status"] != "degraded" || deps["mongodb"].(map[string]any)["status"] != "unhealthy" {
		t.Fatalf("unexpected readiness payload: %+v", resp)
	}
}

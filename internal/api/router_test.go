package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/procurecontract/session-service/internal/api/handler"
	"github.com/procurecontract/session-service/internal/api/middleware"
	"github.com/procurecontract/session-service/internal/core/service"
	"github.com/procurecontract/session-service/internal/infrastructure/db/memory"
	"github.com/procurecontract/session-service/internal/infrastructure/token"
)

func newTestRouter(t *testing.T) (*echo.Echo, *service.Registry) {
	t.Helper()

	provider, err := service.NewBuiltinProvider(service.DefaultAccounts, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	issuer, err := token.NewJWTIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	registry := service.NewRegistry(memory.NewBackend(), provider, issuer, service.RegistryOptions{IdleTimeout: time.Minute, MaxClients: 50}, zerolog.Nop())

	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Registry:   registry,
		Guard:      service.NewGuard("/login", "/"),
		HomePath:   "/",
		Readiness:  map[string]handler.Pinger{"session_store": memory.NewBackend()},
		Registerer: reg,
		Gatherer:   reg,
		Log:        zerolog.Nop(),
	})
	return e, registry
}

func do(e *echo.Echo, method, target, clientID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if clientID != "" {
		req.Header.Set(middleware.ClientIDHeader, clientID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != location {
		t.Fatalf("expected 302 to %s, got %d %q", location, rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRouter_GuestNavigation(t *testing.T) {
	e, _ := newTestRouter(t)

	expectRedirect(t, do(e, http.MethodGet, "/contracts", "guest", ""), "/login")
	expectRedirect(t, do(e, http.MethodGet, "/", "guest", ""), "/login")

	rec := do(e, http.MethodGet, "/signup", "guest", "")
	if rec.Code != http.StatusOK || decodeBody(t, rec)["view"] != "signup" {
		t.Fatalf("expected the signup view, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_LoginFlow(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPost, "/auth/login", "tab-1", `{"username":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["success"] != false || resp["message"] != "invalid username or password" {
		t.Fatalf("unexpected failure envelope: %+v", resp)
	}

	rec = do(e, http.MethodPost, "/auth/login", "tab-1", `{"username":"   ","password":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank credentials, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/auth/login", "tab-1", `{"username":"admin","password":"admin123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["token"] == "" {
		t.Fatalf("expected a token")
	}

	expectRedirect(t, do(e, http.MethodGet, "/login", "tab-1", ""), "/")

	rec = do(e, http.MethodGet, "/procurement/documents/doc-7", "tab-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp = decodeBody(t, rec)
	if resp["view"] != "procurement_document" || resp["params"].(map[string]any)["id"] != "doc-7" {
		t.Fatalf("unexpected descriptor: %+v", resp)
	}
	if resp["user"].(map[string]any)["name"] != "Admin User" {
		t.Fatalf("unexpected user: %+v", resp["user"])
	}

	rec = do(e, http.MethodPost, "/auth/logout", "tab-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	expectRedirect(t, do(e, http.MethodGet, "/settings", "tab-1", ""), "/login")
}

func TestRouter_ClientsAreIsolated(t *testing.T) {
	e, _ := newTestRouter(t)

	do(e, http.MethodPost, "/auth/login", "tab-1", `{"username":"user","password":"user123"}`)

	rec := do(e, http.MethodGet, "/auth/session", "tab-2", "")
	if decodeBody(t, rec)["is_authenticated"] != false {
		t.Fatalf("tab-2 must not share the session of tab-1")
	}
}

func TestRouter_ProfileUpdate(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPatch, "/auth/profile", "tab-1", `{"name":"Someone"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}

	do(e, http.MethodPost, "/auth/login", "tab-1", `{"username":"user","password":"user123"}`)
	rec = do(e, http.MethodPatch, "/auth/profile", "tab-1", `{"email":"new@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	session := decodeBody(t, do(e, http.MethodGet, "/auth/session", "tab-1", ""))["session"].(map[string]any)
	if session["email"] != "new@example.com" || session["name"] != "Regular User" || session["id"] != "2" {
		t.Fatalf("unexpected session after update: %+v", session)
	}
}

func TestRouter_Register(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPost, "/auth/register", "tab-1", `{"username":"jane","name":"Jane","email":"jane@example.com","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["session"].(map[string]any)["role"] != "user" {
		t.Fatalf("registered sessions must have the user role")
	}

	rec = do(e, http.MethodPost, "/auth/register", "tab-2", `{"username":"jane","email":"bad"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestRouter_AdminSessions(t *testing.T) {
	e, _ := newTestRouter(t)

	expectRedirect(t, do(e, http.MethodGet, "/admin/sessions", "tab-1", ""), "/login")

	do(e, http.MethodPost, "/auth/login", "tab-1", `{"username":"user","password":"user123"}`)
	rec := do(e, http.MethodGet, "/admin/sessions", "tab-1", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for the user role, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["success"] != false || resp["message"] != "access forbidden" {
		t.Fatalf("unexpected failure envelope: %+v", resp)
	}

	do(e, http.MethodPost, "/auth/login", "tab-2", `{"username":"admin","password":"admin123"}`)
	rec = do(e, http.MethodGet, "/admin/sessions", "tab-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if decodeBody(t, rec)["total"] != float64(2) {
		t.Fatalf("expected both clients listed: %s", rec.Body.String())
	}
}

func TestRouter_UnknownPathRedirectsHome(t *testing.T) {
	e, _ := newTestRouter(t)
	expectRedirect(t, do(e, http.MethodGet, "/does/not/exist", "tab-1", ""), "/")
}

func TestRouter_IssuesClientCookie(t *testing.T) {
	e, registry := newTestRouter(t)

	rec := do(e, http.MethodGet, "/auth/session", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.ClientCookie {
		t.Fatalf("expected a client cookie, got %+v", cookies)
	}
	if list := registry.List(); len(list) != 1 || list[0].ClientID != cookies[0].Value {
		t.Fatalf("expected the cookie id to own a manager: %+v", list)
	}
}

func TestRouter_InvalidClientHeaderRejected(t *testing.T) {
	e, registry := newTestRouter(t)

	rec := do(e, http.MethodPost, "/auth/login", "user@host.example", `{"username":"admin","password":"admin123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["success"] != false || resp["message"] != "invalid client id" {
		t.Fatalf("unexpected failure envelope: %+v", resp)
	}
	if registry.Len() != 0 {
		t.Fatalf("a rejected request must not create a session manager")
	}
}

func TestRouter_CookielessTrafficIsBounded(t *testing.T) {
	e, registry := newTestRouter(t)

	for i := 0; i < 200; i++ {
		rec := do(e, http.MethodGet, "/login", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
	if n := registry.Len(); n > 50 {
		t.Fatalf("expected at most 50 live managers, got %d", n)
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	e, _ := newTestRouter(t)

	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/ready, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}

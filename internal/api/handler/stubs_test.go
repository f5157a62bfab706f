package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/api/middleware"
	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

type stubSessionManager struct {
	snap       domain.Snapshot
	loginFn    func(ctx context.Context, username, password string) (*domain.Session, error)
	registerFn func(ctx context.Context, reg domain.Registration) (*domain.Session, error)
	profileFn  func(ctx context.Context, update domain.ProfileUpdate) (*domain.Session, error)
	logouts    int
}

func (s *stubSessionManager) Snapshot() domain.Snapshot { return s.snap }

func (s *stubSessionManager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubSessionManager) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	return s.registerFn(ctx, reg)
}

func (s *stubSessionManager) Logout(context.Context) { s.logouts++ }

func (s *stubSessionManager) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Session, error) {
	return s.profileFn(ctx, update)
}

type stubRegistry struct {
	sessions []ports.ClientSession
}

func (r *stubRegistry) Acquire(context.Context, string) ports.SessionManager { return nil }

func (r *stubRegistry) AcquireNew(string) ports.SessionManager { return nil }

func (r *stubRegistry) List() []ports.ClientSession { return r.sessions }

func adminSession() *domain.Session {
	return &domain.Session{
		UserID:      "1",
		Username:    "admin",
		DisplayName: "Admin User",
		Email:       "admin@example.com",
		Role:        domain.RoleAdmin,
		Token:       "token123",
	}
}

// newContext builds an echo context for method/target with m attached as
// the client's session manager. body is sent as JSON when non-empty.
func newContext(method, target, body string, m ports.SessionManager) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if m != nil {
		c.Set(middleware.SessionKey, m)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

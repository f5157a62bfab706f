package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

const (
	// ClientIDHeader lets non-browser clients name their instance explicitly.
	ClientIDHeader = "X-Client-ID"
	// ClientCookie carries the client id of browser instances.
	ClientCookie = "pc_client"

	// Context keys set by the middleware in this package.
	ClientIDKey  = "client_id"
	NewClientKey = "client_new"
	SessionKey   = "session_manager"
	SnapshotKey  = "session_snapshot"

	clientCookieMaxAge = 365 * 24 * time.Hour
	maxClientIDLen     = 64
)

// IdentifyClient resolves the client instance of the request. An explicit
// X-Client-ID header must be well formed or the request is rejected with 400;
// otherwise the pc_client cookie is used, and a new id is minted and set as
// the cookie when it is absent or unusable.
func IdentifyClient(secureCookie bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := strings.TrimSpace(c.Request().Header.Get(ClientIDHeader)); id != "" {
				if !validClientID(id) {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
				}
				c.Set(ClientIDKey, id)
				return next(c)
			}

			if ck, err := c.Cookie(ClientCookie); err == nil && validClientID(ck.Value) {
				c.Set(ClientIDKey, ck.Value)
				return next(c)
			}

			id := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(clientCookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(ClientIDKey, id)
			c.Set(NewClientKey, true)
			return next(c)
		}
	}
}

// AttachSession looks up the session manager of the identified client.
// It must run after IdentifyClient.
func AttachSession(registry ports.SessionRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(ClientIDKey).(string)
			if id == "" {
				return echo.NewHTTPError(http.StatusInternalServerError, "client not identified")
			}

			if fresh, _ := c.Get(NewClientKey).(bool); fresh {
				c.Set(SessionKey, registry.AcquireNew(id))
			} else {
				c.Set(SessionKey, registry.Acquire(c.Request().Context(), id))
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session manager attached to c.
func SessionFrom(c echo.Context) (ports.SessionManager, error) {
	m, ok := c.Get(SessionKey).(ports.SessionManager)
	if !ok || m == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session not attached")
	}
	return m, nil
}

// SnapshotFrom returns the snapshot the guard admitted the request with,
// falling back to a fresh one from the attached manager.
func SnapshotFrom(c echo.Context) domain.Snapshot {
	if snap, ok := c.Get(SnapshotKey).(domain.Snapshot); ok {
		return snap
	}
	if m, err := SessionFrom(c); err == nil {
		return m.Snapshot()
	}
	return domain.Snapshot{State: domain.StateUnauthenticated}
}

// ClientIDFrom returns the client id resolved by IdentifyClient.
func ClientIDFrom(c echo.Context) string {
	id, _ := c.Get(ClientIDKey).(string)
	return id
}

func validClientID(id string) bool {
	if id == "" || len(id) > maxClientIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

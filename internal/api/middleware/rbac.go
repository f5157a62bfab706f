package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/core/domain"
)

// RBAC enforces role-based access control on the admitted session.
// It must run after Guard. Rejections surface as domain.ErrForbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := SnapshotFrom(c)
			if snap.Session == nil {
				return domain.ErrForbidden
			}
			if _, ok := allowed[snap.Session.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

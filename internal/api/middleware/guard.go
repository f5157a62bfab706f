package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/api/metrics"
	"github.com/procurecontract/session-service/internal/core/domain"
)

// Decider is the route guard consulted for each navigation.
type Decider interface {
	Decide(state domain.State, route domain.Route) domain.Decision
}

type pendingResponse struct {
	View      string `json:"view"`
	IsLoading bool   `json:"is_loading"`
}

// Guard gates route on the state of the attached session manager.
// Pending decisions render a loading placeholder with 202 and Retry-After;
// redirects use 302. It must run after AttachSession.
func Guard(decider Decider, route domain.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m, err := SessionFrom(c)
			if err != nil {
				return err
			}

			snap := m.Snapshot()
			decision := decider.Decide(snap.State, route)
			metrics.GuardDecisionsTotal.WithLabelValues(string(decision.Verdict), route.Name).Inc()

			switch decision.Verdict {
			case domain.VerdictPending:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusAccepted, pendingResponse{View: "loading", IsLoading: true})
			case domain.VerdictRedirect:
				return c.Redirect(http.StatusFound, decision.Location)
			}

			c.Set(SnapshotKey, snap)
			return next(c)
		}
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/api/middleware"
	"github.com/procurecontract/session-service/internal/core/domain"
)

// ViewHandler renders the descriptor of an admitted view. Access decisions
// are made by middleware.Guard before it runs.
type ViewHandler struct{}

func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

// Render returns the handler for route.
func (h *ViewHandler) Render(route domain.Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		var params map[string]string
		if names := c.ParamNames(); len(names) > 0 {
			params = make(map[string]string, len(names))
			for i, name := range names {
				params[name] = c.ParamValues()[i]
			}
		}

		return c.JSON(http.StatusOK, viewResponse{
			View:    route.Name,
			Section: route.Section,
			Path:    c.Request().URL.Path,
			Params:  params,
			User:    toUserResponse(middleware.SnapshotFrom(c).Session),
		})
	}
}

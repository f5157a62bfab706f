package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/core/ports"
)

type AdminHandler struct {
	registry ports.SessionRegistry
}

func NewAdminHandler(registry ports.SessionRegistry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// Sessions lists the clients that currently hold a session manager in memory.
//
// @Summary      List live client sessions
// @Tags         admin
// @Produce      json
// @Param        X-Client-ID  header    string  false  "Client instance id"
// @Success      200          {object}  clientListResponse
// @Failure      403          {object}  errorResponse
// @Router       /admin/sessions [get]
func (h *AdminHandler) Sessions(c echo.Context) error {
	return c.JSON(http.StatusOK, toClientList(h.registry.List()))
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/api/middleware"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// sessionOf returns the session manager attached by middleware.AttachSession.
// A missing manager is a wiring bug and surfaces as a 500.
func sessionOf(c echo.Context) (ports.SessionManager, error) {
	return middleware.SessionFrom(c)
}

// bindAndValidate decodes the request body into req and runs the validator.
// Decoding failures are 400, validation failures 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

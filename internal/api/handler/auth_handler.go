package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/procurecontract/session-service/internal/api/metrics"
	"github.com/procurecontract/session-service/internal/core/domain"
)

// AuthHandler exposes the session manager operations of the requesting client.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Session returns the current session snapshot of the client.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Param        X-Client-ID  header    string  false  "Client instance id"
// @Success      200          {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(m.Snapshot()))
}

// Login authenticates the client with a username and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Client-ID  header    string        false  "Client instance id"
// @Param        body         body      loginRequest  true   "Login credentials"
// @Success      200          {object}  authResponse
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := m.Login(c.Request().Context(), req.Username, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Token:   session.Token,
		Session: toUserResponse(session),
	})
}

// Register creates a user-role session for a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Client-ID  header    string           false  "Client instance id"
// @Param        body         body      registerRequest  true   "Account details"
// @Success      201          {object}  authResponse
// @Failure      400          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := m.Register(c.Request().Context(), toRegistration(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Token:   session.Token,
		Session: toUserResponse(session),
	})
}

// Logout ends the client's session. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Param        X-Client-ID  header    string  false  "Client instance id"
// @Success      200          {object}  authResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}

	m.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, authResponse{Success: true})
}

// Profile merges the supplied display name and email into the session.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Client-ID  header    string          false  "Client instance id"
// @Param        body         body      profileRequest  true   "Fields to update"
// @Success      200          {object}  authResponse
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /auth/profile [patch]
func (h *AuthHandler) Profile(c echo.Context) error {
	m, err := sessionOf(c)
	if err != nil {
		return err
	}

	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	update := toProfileUpdate(req)
	if update.Empty() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "nothing to update")
	}

	session, err := m.UpdateProfile(c.Request().Context(), update)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, Session: toUserResponse(session)})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrMissingCredentials):
		return "missing_credentials"
	default:
		return "error"
	}
}

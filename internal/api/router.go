package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/procurecontract/session-service/docs"
	"github.com/procurecontract/session-service/internal/api/handler"
	"github.com/procurecontract/session-service/internal/api/middleware"
	"github.com/procurecontract/session-service/internal/core/domain"
	"github.com/procurecontract/session-service/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built on.
type Dependencies struct {
	Registry ports.SessionRegistry
	Guard    middleware.Decider
	// HomePath is where unknown paths are sent; the guard takes it from there.
	HomePath string
	// Readiness maps dependency names to the probes of /health/ready.
	Readiness     map[string]handler.Pinger
	SecureCookies bool
	// Registerer and Gatherer back the HTTP metrics; nil selects the
	// Prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "session_service",
		Registerer: deps.Registerer,
	}))

	// Session middleware is attached per route rather than through a group so
	// unmatched paths keep reaching the fallback below.
	session := []echo.MiddlewareFunc{
		middleware.IdentifyClient(deps.SecureCookies),
		middleware.AttachSession(deps.Registry),
	}
	guarded := func(route domain.Route, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
		mw := append([]echo.MiddlewareFunc{}, session...)
		mw = append(mw, middleware.Guard(deps.Guard, route))
		return append(mw, extra...)
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler()
	e.GET("/auth/session", authHandler.Session, session...)
	e.POST("/auth/login", authHandler.Login, session...)
	e.POST("/auth/register", authHandler.Register, session...)
	e.POST("/auth/logout", authHandler.Logout, session...)
	e.PATCH("/auth/profile", authHandler.Profile, session...)

	// --- Views ---
	viewHandler := handler.NewViewHandler()
	for _, route := range Views {
		e.GET(route.Path, viewHandler.Render(route), guarded(route)...)
	}

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(deps.Registry)
	e.GET(adminSessionsRoute.Path, adminHandler.Sessions, guarded(adminSessionsRoute, middleware.RBAC(domain.RoleAdmin))...)

	// --- Health probes (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Unknown paths land on the home view.
	homePath := deps.HomePath
	if homePath == "" {
		homePath = "/"
	}
	e.GET("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, homePath)
	})

	return e
}

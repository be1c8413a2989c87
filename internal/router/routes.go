package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/lead-capture/api/internal/auth"
	"github.com/octobees/lead-capture/api/internal/handler"
	middlewarepkg "github.com/octobees/lead-capture/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health *handler.HealthHandler
	Auth   *handler.AuthHandler
	Leads  *handler.LeadsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, jwtManager *auth.JWTManager, gatherer prometheus.Gatherer, handlers Handlers) {
	e.GET("/healthz", handlers.Health.Live)
	e.GET("/readyz", handlers.Health.Ready)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	e.POST("/leads", handlers.Leads.Submit)
	if handlers.Auth != nil {
		e.POST("/auth/login", handlers.Auth.Login)
	}

	admin := e.Group("/admin", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole(auth.RoleAdmin))
	admin.GET("/leads", handlers.Leads.List)
}

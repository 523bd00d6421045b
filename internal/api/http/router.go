package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/safety-roster/internal/api/http/handlers"
	"github.com/spec-kit/safety-roster/internal/auth"
	"github.com/spec-kit/safety-roster/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Auth           *handlers.AuthHandler
	Roster         *handlers.RosterHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/options", cfg.Staff.Options)
	app.Get("/staff/:id", cfg.Staff.GetStaff)
	app.Put("/staff/:id", cfg.Staff.SaveStaff)

	authGroup := app.Group("/auth")
	authGroup.Post("/coordinator/login", cfg.Auth.LoginCoordinator)

	coordinatorOnly := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCoordinator)}
	app.Get("/roster", append(coordinatorOnly, cfg.Roster.Roster)...)
	app.Get("/metrics", append(coordinatorOnly, cfg.Roster.Metrics)...)
}

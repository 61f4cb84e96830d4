package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/resolvenow/complaint-service/internal/api/http/handlers"
	"github.com/resolvenow/complaint-service/internal/auth"
	"github.com/resolvenow/complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Each protected route declares the roles allowed to reach it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	admin := auth.RequireRole(domain.RoleAdmin)
	agent := auth.RequireRole(domain.RoleAgent)
	user := auth.RequireRole(domain.RoleUser)
	anyRole := auth.RequireRole()

	protected.Get("/users", admin, cfg.Auth.ListUsers)
	protected.Get("/agents", admin, cfg.Auth.ListAgents)

	protected.Get("/agent/complaints", agent, cfg.Complaints.ListAssigned)

	complaints := protected.Group("/complaints")
	complaints.Post("/", user, cfg.Complaints.Submit)
	complaints.Get("/", admin, cfg.Complaints.ListAll)
	complaints.Get("/mine", user, cfg.Complaints.ListMine)
	complaints.Get("/stats", anyRole, cfg.Complaints.Stats)
	complaints.Get("/:id", anyRole, cfg.Complaints.Get)
	complaints.Delete("/:id", user, cfg.Complaints.Delete)
	complaints.Post("/:id/assign", admin, cfg.Complaints.Assign)
	complaints.Patch("/:id/status", agent, cfg.Complaints.UpdateStatus)
	complaints.Get("/:id/messages", anyRole, cfg.Complaints.ListMessages)
	complaints.Post("/:id/messages", anyRole, cfg.Complaints.AddMessage)
}

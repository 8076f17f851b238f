package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Notes          *handlers.NotesHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthRateLimit  fiber.Handler
}

// RegisterRoutes wires HTTP routes. Literal ticket paths (/staff, /manager)
// register before the :id routes so they are matched first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	users := app.Group("/users")
	users.Post("/", cfg.AuthRateLimit, cfg.Users.Register)
	users.Post("/login", cfg.AuthRateLimit, cfg.Users.Login)
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	users.Get("/staff", cfg.AuthMiddleware.Handle, auth.RequireManager(), cfg.Users.SearchStaff)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/staff", auth.RequireStaff(), cfg.Tickets.ListAssigned)
	tickets.Get("/manager", auth.RequireManager(), cfg.Tickets.ListAllForManager)
	tickets.Post("/manager/assign", auth.RequireManager(), cfg.Tickets.Assign)
	tickets.Get("/:ticketId/notes", cfg.Notes.List)
	tickets.Post("/:ticketId/notes", cfg.Notes.Add)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hydrotek/service-desk/internal/api/http/handlers"
	"github.com/hydrotek/service-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireSignedIn())
	tickets.Get("/next-number", cfg.Tickets.NextNumber)
	tickets.Get("/mine", cfg.Tickets.ListMine)
	tickets.Post("/", cfg.Tickets.Submit)
	tickets.Get("/:id", cfg.Tickets.GetTicket)

	staff := app.Group("/staff/tickets", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/stats", cfg.StaffTickets.Stats)
	staff.Get("/", cfg.StaffTickets.List)
	staff.Get("/:id/transitions", cfg.StaffTickets.NextStates)
	staff.Get("/:id/history", cfg.StaffTickets.History)
	staff.Post("/:id/status", cfg.StaffTickets.UpdateStatus)
}

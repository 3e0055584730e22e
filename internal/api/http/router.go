package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helixdesk/helixdesk/internal/api/http/handlers"
	"github.com/helixdesk/helixdesk/internal/auth"
	"github.com/helixdesk/helixdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Tasks          *handlers.TasksHandler
	Views          *handlers.ViewsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Fine-grained permission checks live in
// the services; route guards only cut off whole role classes early.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/client-login", cfg.Auth.ClientLogin)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
	users.Patch("/me", cfg.Users.UpdateProfile)
	users.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Users.Create)
	users.Get("", auth.RequireStaff(), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.AdminUpdate)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Post("/suggest", cfg.Tickets.Suggest)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.Delete)
	tickets.Post("/:id/claim", auth.RequireStaff(), cfg.Tickets.Claim)
	tickets.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.Assign)
	tickets.Post("/:id/reject-new", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.RejectNew)
	tickets.Post("/:id/resolve", auth.RequireStaff(), cfg.Tickets.Resolve)
	tickets.Post("/:id/accept", cfg.Tickets.Accept)
	tickets.Post("/:id/reject", cfg.Tickets.Reject)
	tickets.Post("/:id/cancel", cfg.Tickets.Cancel)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachments)
	tickets.Post("/:id/generate-tasks", auth.RequireStaff(), cfg.Tickets.GenerateTasks)

	tasks := tickets.Group("/:id/tasks", auth.RequireStaff())
	tasks.Post("", cfg.Tasks.Add)
	tasks.Patch("/:taskId", cfg.Tasks.Update)
	tasks.Delete("/:taskId", cfg.Tasks.Delete)
	tasks.Post("/:taskId/claim", cfg.Tasks.Claim)
	tasks.Post("/:taskId/assign", auth.RequireRole(domain.RoleAdmin), cfg.Tasks.Assign)
	tasks.Post("/:taskId/submit", cfg.Tasks.Submit)
	tasks.Post("/:taskId/approve", cfg.Tasks.Approve)
	tasks.Post("/:taskId/reject", cfg.Tasks.Reject)
	tasks.Post("/:taskId/toggle", cfg.Tasks.Toggle)

	views := app.Group("/views", cfg.AuthMiddleware.Handle)
	views.Get("/task-pool", cfg.Views.TaskPool)
	views.Get("/my-tasks", cfg.Views.MyTasks)
	views.Get("/ongoing", cfg.Views.Ongoing)
	views.Get("/approvals", cfg.Views.Approvals)
	views.Get("/history/tickets", cfg.Views.HistoryTickets)
	views.Get("/history/tasks", cfg.Views.HistoryTasks)
	views.Get("/reports", cfg.Views.Reports)
}

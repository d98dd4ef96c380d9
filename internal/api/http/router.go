package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The auth middleware runs globally; the
// routes it lets through unauthenticated are governed by the configured
// public-route set, not by registration order.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "order service is running"})
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	users := app.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Get("/", auth.RequireRoles(domain.RoleAdmin), cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", auth.RequireRoles(domain.RoleAdmin), cfg.Users.Delete)
	users.Patch("/:id/role", auth.RequireRoles(domain.RoleAdmin), cfg.Users.ChangeRole)

	orders := app.Group("/orders")
	orders.Post("/", cfg.Orders.Create)
	orders.Get("/", cfg.Orders.ListMine)
	orders.Get("/:id", cfg.Orders.Get)

	admin := app.Group("/admin", auth.RequireRoles(domain.RoleAdmin))
	admin.Get("/orders", cfg.Orders.AdminList)
	admin.Patch("/orders/:id/status", cfg.Orders.UpdateStatus)
}

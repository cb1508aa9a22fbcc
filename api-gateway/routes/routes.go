package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/panpal/panpal/api-gateway/config"
	"github.com/panpal/panpal/api-gateway/health"
	"github.com/panpal/panpal/api-gateway/middleware"
	"github.com/panpal/panpal/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
	OptionalAuth bool
}

// Routes holds all route definitions
var Routes = []RouteDefinition{
	// Public routes (no auth required)
	{
		Prefix:      "/auth",
		ServiceName: "user",
		Description: "Authentication endpoints (login, register)",
	},

	// Recipe browsing is public, writes are authorized by the service
	{
		Prefix:       "/api/recipes",
		ServiceName:  "recipe",
		Description:  "Recipe catalog (public reads, authenticated writes)",
		OptionalAuth: true,
	},

	// User profile routes
	{
		Prefix:      "/api/users",
		ServiceName: "user",
		Description: "User profiles",
		RequireAuth: true,
	},

	// Favorites require a signed-in user
	{
		Prefix:      "/api/favorites",
		ServiceName: "favorites",
		Description: "Per-user favorite recipes",
		RequireAuth: true,
	},

	// Admin dashboard
	{
		Prefix:       "/api/admin",
		ServiceName:  "user",
		Description:  "Admin dashboard (user stats, user management)",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, cbManager *middleware.CircuitBreakerManager) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)
		return c.JSON(healthStatus)
	})

	// Circuit breaker stats
	app.Get("/health/circuits", func(c *fiber.Ctx) error {
		return c.JSON(cbManager.GetAllStats())
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "PanPal API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler

	switch {
	case route.RequireAdmin:
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	case route.RequireAuth:
		middlewares = append(middlewares, middleware.AuthMiddleware())
	case route.OptionalAuth:
		middlewares = append(middlewares, middleware.OptionalAuthMiddleware())
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/panpal/panpal/api-gateway/config"
	"github.com/panpal/panpal/api-gateway/middleware"
	"github.com/panpal/panpal/api-gateway/routes"
	"github.com/panpal/panpal/pkg/logger"
	"github.com/panpal/panpal/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "api-gateway")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting API Gateway")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Initialize Redis for rate limiting and response caching
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisPassword := getEnv("REDIS_PASSWORD", "")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - caching and rate limiting disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().
			Str("redis_addr", redisAddr).
			Msg("Connected to Redis")
	}

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize circuit breaker manager
	cbManager := middleware.NewCircuitBreakerManager()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PanPal API Gateway",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	setupMiddleware(app, redisClient, cbManager)

	// Setup routes
	routes.SetupRoutes(app, cfg, cbManager)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Logger.Info().
			Str("addr", addr).
			Msg("API Gateway listening")
		for name, svc := range cfg.Services {
			logger.Logger.Info().
				Str("service", name).
				Strs("instances", svc.Instances).
				Msg("Routing to service")
		}

		if err := app.Listen(addr); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down API Gateway...")

	if err := app.Shutdown(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Logger.Info().Msg("API Gateway stopped")
}

// setupMiddleware configures global middleware
func setupMiddleware(app *fiber.App, redisClient *redis.Client, cbManager *middleware.CircuitBreakerManager) {
	// Recover from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request ID (must be first)
	app.Use(requestid.New())

	// OpenTelemetry tracing (after request ID)
	app.Use(middleware.TracingMiddleware())

	// Structured logging (after tracing for trace ID)
	app.Use(middleware.StructuredLoggingMiddleware())

	// Response caching and mutation-driven invalidation
	if redisClient != nil {
		cacheConfig := middleware.DefaultCacheConfig()
		app.Use(middleware.CacheMiddleware(redisClient, cacheConfig))
		app.Use(middleware.CacheInvalidationMiddleware(redisClient))
		logger.Logger.Info().
			Dur("ttl", cacheConfig.DefaultTTL).
			Msg("Response caching enabled (GET/HEAD only)")
	}

	// Circuit breaker (before rate limiting to fail fast)
	app.Use(middleware.CircuitBreakerMiddleware(cbManager))
	logger.Logger.Info().Msg("Circuit breaker enabled (5 failures, 30s timeout)")

	// Rate limiting (if Redis available)
	if redisClient != nil {
		logger.Logger.Info().Msg("Rate limiting enabled (100 req/min)")
		app.Use(middleware.GlobalRateLimiter(redisClient))
	} else {
		logger.Logger.Warn().Msg("Rate limiting disabled (Redis not available)")
	}

	// CORS for the web and mobile frontends
	allowOrigins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-Id, X-Trace-Id, X-Cache, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           86400,
	}))

	// Compression
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      err.Error(),
		"statusCode": code,
		"path":       c.Path(),
		"method":     c.Method(),
		"requestId":  c.Get("X-Request-Id"),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

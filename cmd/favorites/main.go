package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/panpal/panpal/internal/favorites"
	"github.com/panpal/panpal/internal/favorites/repository"
	"github.com/panpal/panpal/kafka"
	"github.com/panpal/panpal/pkg/database"
	"github.com/panpal/panpal/pkg/logger"
	"github.com/panpal/panpal/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "favorites-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting favorites service")

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

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "favoritesdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	repo := repository.NewGormFavoriteRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher for favorite change events. The service works
	// without it; downstream counters just go stale.
	var publisher *kafka.Publisher
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	publisher, err = kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, favorite change events disabled")
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Initialize handler with Wire DI
	handler, err := favorites.InitializeHTTPHandler(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8083")
	go func() {
		router := mux.NewRouter()
		handler.RegisterRoutes(router)

		// Prometheus metrics endpoint
		router.Handle("/metrics", promhttp.Handler())

		c := cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		})

		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := http.ListenAndServe(":"+httpPort, c.Handler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

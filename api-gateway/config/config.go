package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration. Each service address
// variable accepts a comma separated list of instances.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8080"),
		Services: map[string]ServiceConfig{
			"user": {
				Name:        "user-service",
				Instances:   getEnvList("USER_SERVICE_URL", "http://localhost:8081"),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"recipe": {
				Name:        "recipe-service",
				Instances:   getEnvList("RECIPE_SERVICE_URL", "http://localhost:8082"),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"favorites": {
				Name:        "favorites-service",
				Instances:   getEnvList("FAVORITES_SERVICE_URL", "http://localhost:8083"),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	instances := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			instances = append(instances, strings.TrimSuffix(trimmed, "/"))
		}
	}
	return instances
}

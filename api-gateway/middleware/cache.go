package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/panpal/panpal/pkg/logger"
)

// CacheConfig holds response cache configuration
type CacheConfig struct {
	DefaultTTL       time.Duration
	CacheableMethods []string
	CacheableStatus  []int
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:       5 * time.Minute,
		CacheableMethods: []string{"GET", "HEAD"},
		CacheableStatus:  []int{200, 203, 300, 301, 404, 410},
	}
}

// CacheMiddleware implements response caching with Redis. Keys are
// scoped to the caller so a user's cached reads can be dropped when
// that user mutates their own data.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}

		if !isMethodCacheable(c.Method(), config.CacheableMethods) {
			return c.Next()
		}

		cacheKey := generateCacheKey(c)

		ctx := context.Background()
		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cachedResponse) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Str("cache_key", cacheKey).
				Msg("Cache hit")

			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cachedResponse)
		}

		logger.Logger.Debug().
			Str("path", c.Path()).
			Str("cache_key", cacheKey).
			Msg("Cache miss")

		err = c.Next()

		statusCode := c.Response().StatusCode()
		if isStatusCacheable(statusCode, config.CacheableStatus) {
			responseBody := c.Response().Body()

			ttl := config.DefaultTTL
			if setErr := redisClient.Set(ctx, cacheKey, responseBody, ttl).Err(); setErr != nil {
				logger.Logger.Warn().
					Err(setErr).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
			} else {
				logger.Logger.Debug().
					Str("path", c.Path()).
					Str("cache_key", cacheKey).
					Dur("ttl", ttl).
					Int("size", len(responseBody)).
					Msg("Response cached")
			}

			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// invalidatingPrefixes are paths whose mutations change what the same
// caller would read back.
var invalidatingPrefixes = []string{"/api/favorites", "/api/users", "/api/recipes"}

// CacheInvalidationMiddleware drops the caller's cached responses after
// a successful mutation. Registered after the cache middleware so it
// sees the final status code.
func CacheInvalidationMiddleware(redisClient *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if redisClient == nil {
			return err
		}
		if c.Method() == "GET" || c.Method() == "HEAD" || c.Method() == "OPTIONS" {
			return err
		}

		path := c.Path()
		matches := false
		for _, prefix := range invalidatingPrefixes {
			if strings.HasPrefix(path, prefix) {
				matches = true
				break
			}
		}
		if !matches {
			return err
		}

		statusCode := c.Response().StatusCode()
		if statusCode < 200 || statusCode >= 300 {
			return err
		}

		pattern := fmt.Sprintf("cache:%s:*", cacheSubject(c))
		if invErr := InvalidateCache(redisClient, pattern); invErr != nil {
			logger.Logger.Warn().
				Err(invErr).
				Str("pattern", pattern).
				Msg("Failed to invalidate cache after mutation")
		}

		return err
	}
}

// cacheSubject identifies the caller for cache scoping. Authenticated
// callers are keyed by a hash of their token, anonymous ones share a
// bucket.
func cacheSubject(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "anon"
	}
	hash := sha256.Sum256([]byte(authHeader))
	return hex.EncodeToString(hash[:8])
}

// generateCacheKey generates a unique cache key for the request
func generateCacheKey(c *fiber.Ctx) string {
	keyComponents := fmt.Sprintf("%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
	)

	hash := sha256.Sum256([]byte(keyComponents))
	return fmt.Sprintf("cache:%s:%s", cacheSubject(c), hex.EncodeToString(hash[:]))
}

func isMethodCacheable(method string, cacheableMethods []string) bool {
	for _, m := range cacheableMethods {
		if m == method {
			return true
		}
	}
	return false
}

func isStatusCacheable(status int, cacheableStatus []int) bool {
	for _, s := range cacheableStatus {
		if s == status {
			return true
		}
	}
	return false
}

// InvalidateCache deletes all cache entries matching a pattern
func InvalidateCache(redisClient *redis.Client, pattern string) error {
	ctx := context.Background()

	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}

		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}

	return nil
}

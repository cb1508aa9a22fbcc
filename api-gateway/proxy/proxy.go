package proxy

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/panpal/panpal/api-gateway/config"
	"github.com/panpal/panpal/api-gateway/loadbalancer"
	"github.com/panpal/panpal/pkg/logger"
)

const (
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// ReverseProxy forwards requests to backend service instances
type ReverseProxy struct {
	config        *config.GatewayConfig
	client        *http.Client
	loadBalancers map[string]*loadbalancer.RoundRobin
}

// NewReverseProxy creates a new reverse proxy
func NewReverseProxy(cfg *config.GatewayConfig) *ReverseProxy {
	loadBalancers := make(map[string]*loadbalancer.RoundRobin)

	for name, svc := range cfg.Services {
		loadBalancers[name] = loadbalancer.NewRoundRobin(svc.Instances)
	}

	return &ReverseProxy{
		config:        cfg,
		loadBalancers: loadBalancers,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ProxyRequest forwards the request to the target service. Idempotent
// requests are retried on the next instance with exponential backoff.
func (p *ReverseProxy) ProxyRequest(c *fiber.Ctx, serviceName string) error {
	lb, lbExists := p.loadBalancers[serviceName]
	if !lbExists {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": fmt.Sprintf("Load balancer for '%s' not found", serviceName),
		})
	}

	attempts := 1
	if isIdempotent(c.Method()) {
		attempts = maxRetries
	}

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		serverURL := lb.Next()
		if serverURL == "" {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": fmt.Sprintf("No available instances for '%s'", serviceName),
			})
		}

		logger.Logger.Debug().
			Str("service", serviceName).
			Str("target_url", serverURL).
			Str("path", c.Path()).
			Int("attempt", attempt+1).
			Msg("Load balancer selected instance")

		resp, err := p.forward(c, serverURL)
		if err != nil {
			lastErr = err
			logger.Logger.Warn().
				Err(err).
				Str("service", serviceName).
				Str("target_url", serverURL).
				Msg("Backend request failed")
			continue
		}

		return p.writeResponse(c, resp)
	}

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   "Failed to reach backend service",
		"service": serviceName,
		"details": lastErr.Error(),
	})
}

func (p *ReverseProxy) forward(c *fiber.Ctx, serverURL string) (*http.Response, error) {
	targetURL := p.buildTargetURL(c, serverURL)

	req, err := http.NewRequestWithContext(
		c.UserContext(),
		c.Method(),
		targetURL,
		bytes.NewReader(c.Body()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	p.copyHeaders(c, req)

	return p.client.Do(req)
}

func (p *ReverseProxy) writeResponse(c *fiber.Ctx, resp *http.Response) error {
	defer resp.Body.Close()

	p.copyResponseHeaders(c, resp)
	c.Status(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read response",
		})
	}

	return c.Send(body)
}

// buildTargetURL constructs the full URL for a specific instance
func (p *ReverseProxy) buildTargetURL(c *fiber.Ctx, serverURL string) string {
	path := string(c.Request().URI().Path())

	queryString := string(c.Request().URI().QueryString())
	if queryString != "" {
		queryString = "?" + queryString
	}

	return serverURL + path + queryString
}

// GetLoadBalancers returns all load balancers (for stats)
func (p *ReverseProxy) GetLoadBalancers() map[string]*loadbalancer.RoundRobin {
	return p.loadBalancers
}

func (p *ReverseProxy) copyHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		keyStr := string(key)
		if strings.ToLower(keyStr) == "host" {
			return
		}
		req.Header.Set(keyStr, string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}

func (p *ReverseProxy) copyResponseHeaders(c *fiber.Ctx, resp *http.Response) {
	for key, values := range resp.Header {
		if strings.ToLower(key) == "content-length" {
			continue
		}
		for _, value := range values {
			c.Set(key, value)
		}
	}
}

func isIdempotent(method string) bool {
	switch method {
	case "GET", "HEAD", "OPTIONS", "DELETE", "PUT":
		return true
	}
	return false
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/storefront/internal/storefront/config"
	"github.com/tair/storefront/pkg/circuitbreaker"
	"github.com/tair/storefront/pkg/logger"
)

// ServiceHealth is the probe result for one collaborator
type ServiceHealth struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"` // healthy, unhealthy
	URL       string    `json:"url"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StorefrontHealth is the readiness report
type StorefrontHealth struct {
	Status   string                   `json:"status"` // healthy, degraded, unhealthy
	Services map[string]ServiceHealth `json:"services"`
	Breakers []map[string]interface{} `json:"circuit_breakers"`
	Uptime   float64                  `json:"uptime_seconds"`
}

// HealthChecker probes the collaborators the storefront depends on
type HealthChecker struct {
	services  []config.ServiceConfig
	breakers  []*circuitbreaker.Breaker
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(services []config.ServiceConfig, breakers []*circuitbreaker.Breaker, httpClient *http.Client) *HealthChecker {
	return &HealthChecker{
		services:  services,
		breakers:  breakers,
		client:    httpClient,
		startTime: time.Now(),
	}
}

// CheckService probes a single collaborator's health endpoint
func (h *HealthChecker) CheckService(ctx context.Context, svc config.ServiceConfig) ServiceHealth {
	start := time.Now()
	result := ServiceHealth{
		Name:      svc.Name,
		URL:       svc.BaseURL,
		Timestamp: start,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.BaseURL+svc.HealthCheck, nil)
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("build request: %v", err)
		return result
	}

	resp, err := h.client.Do(req)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("unreachable: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Status = "unhealthy"
		result.Error = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}
	return result
}

// CheckAll probes every collaborator concurrently
func (h *HealthChecker) CheckAll(ctx context.Context) StorefrontHealth {
	services := make(map[string]ServiceHealth, len(h.services))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, svc := range h.services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			health := h.CheckService(ctx, svc)

			mu.Lock()
			services[svc.Name] = health
			mu.Unlock()

			if health.Status != "healthy" {
				logger.Warn(ctx).
					Str("service", svc.Name).
					Str("error", health.Error).
					Msg("Collaborator health check failed")
			}
		}()
	}
	wg.Wait()

	return StorefrontHealth{
		Status:   overallStatus(services),
		Services: services,
		Breakers: h.breakerStats(),
		Uptime:   time.Since(h.startTime).Seconds(),
	}
}

func (h *HealthChecker) breakerStats() []map[string]interface{} {
	stats := make([]map[string]interface{}, 0, len(h.breakers))
	for _, b := range h.breakers {
		stats = append(stats, b.Stats())
	}
	return stats
}

// The catalog is the only collaborator a product view cannot do without.
func overallStatus(services map[string]ServiceHealth) string {
	healthy := 0
	for _, svc := range services {
		if svc.Status == "healthy" {
			healthy++
		}
	}

	if catalog, ok := services["catalog"]; ok && catalog.Status != "healthy" {
		return "unhealthy"
	}
	if healthy == len(services) {
		return "healthy"
	}
	return "degraded"
}

// RegisterRoutes mounts /health, /health/live and /health/ready
func (h *HealthChecker) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "healthy",
			"service":          "storefront",
			"uptime":           time.Since(h.startTime).Seconds(),
			"circuit_breakers": h.breakerStats(),
		})
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		report := h.CheckAll(ctx)
		status := fiber.StatusOK
		if report.Status == "unhealthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(report)
	})
}

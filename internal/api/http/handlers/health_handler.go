package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the postgres and redis wrappers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	postgres    Pinger
	redis       Pinger
}

// NewHealthHandler returns the probe handler. A nil redis means sessions and
// login throttling run in memory.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
		postgres:    postgres,
		redis:       redis,
	}
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "alive",
		"service":        h.serviceName,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// Ready fails only when postgres is unreachable. Redis is reported as
// "disabled" or "unavailable" without failing the probe.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	started := time.Now()
	pgErr := h.postgres.Ping(ctx)
	deps := fiber.Map{"postgres": "ok", "redis": "disabled"}
	if pgErr != nil {
		deps["postgres"] = pgErr.Error()
	}
	if h.redis != nil {
		deps["redis"] = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			deps["redis"] = "unavailable"
		}
	}
	elapsed := time.Since(started).Milliseconds()

	if pgErr != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "postgres unavailable",
				"details": deps,
			},
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": deps,
		"checked_ms":   elapsed,
	})
}

package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Pinger is any dependency that can report its health.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheck reports ok when every dependency answers.
func HealthCheck(deps map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		services := fiber.Map{}
		status := fiber.StatusOK
		for name, dep := range deps {
			if err := dep.HealthCheck(c.UserContext()); err != nil {
				services[name] = err.Error()
				status = fiber.StatusServiceUnavailable
				continue
			}
			services[name] = "connected"
		}

		overall := "ok"
		if status != fiber.StatusOK {
			overall = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   overall,
			"services": services,
		})
	}
}

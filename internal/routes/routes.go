// Package routes defines the API routing configuration.
package routes

import (
	"fitdesk/internal/handlers"
	"fitdesk/internal/middleware"
	"fitdesk/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the billing routes on app. The billing group requires a
// valid bearer token from one of the portal roles.
func SetupRoutes(app *fiber.App, auth *middleware.AuthMiddleware, pm *handlers.PaymentMethodHandler) {
	billing := app.Group("/billing",
		auth.Handler,
		middleware.RequireRole(models.RoleClient, models.RoleTrainer, models.RoleAdmin),
	)

	methods := billing.Group("/payment-methods")
	methods.Post("/process-payment", pm.ProcessPayment)
	methods.Post("/", pm.Save)
	methods.Get("/", pm.List)
	methods.Get("/:id", pm.Get)
	methods.Patch("/:id", pm.Update)
	methods.Delete("/:id", pm.Delete)
}

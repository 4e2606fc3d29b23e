package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	api.Get("/courses", h.ListCourses)
	api.Get("/courses/:courseId", h.GetCourse)

	// Stripe signs the body; no JWT.
	api.Post("/webhooks/payment", h.HandlePaymentWebhook)
}

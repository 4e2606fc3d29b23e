package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/gofiber/fiber/v2"
)

// Register mounts every route group on app.
func Register(app *fiber.App, h *handlers.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Before the public routes so /courses/instructor is not taken as a course id.
	CourseRoutes(app, h)
	PublicRoutes(app, h)
	PaymentRoutes(app, h)
	BankTransferRoutes(app, h)
	InvoiceRoutes(app, h)
	AdminRoutes(app, h)
	UploadRoutes(app, h)
	SocketRoutes(app, h)
}

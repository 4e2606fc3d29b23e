package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(h.JWTSecret), middleware.AdminRequired())

	admin.Get("/payments", h.AdminGetPayments)
	admin.Get("/banktransfers/pending", h.ListPendingBankTransfers)

	reports := admin.Group("/reports")
	reports.Get("/transactions", h.GenerateTransactionReport)

	courses := admin.Group("/courses")
	courses.Post("/:courseId/approve", h.ApproveCourse)
	courses.Post("/:courseId/reject", h.RejectCourse)
}

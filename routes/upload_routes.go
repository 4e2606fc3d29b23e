package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	upload := api.Group("/uploads", middleware.Protected(h.JWTSecret))
	upload.Get("/receipt-signature", h.GetReceiptUploadSignature)
}

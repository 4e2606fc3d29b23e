package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments", middleware.Protected(h.JWTSecret))
	payments.Post("/initiate", h.InitiatePayment)
	payments.Post("/confirm", h.ConfirmPayment)
	payments.Get("/status/:transactionId", h.GetPaymentStatus)
}

func BankTransferRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	transfers := api.Group("/banktransfer", middleware.Protected(h.JWTSecret))
	transfers.Post("/initiate", h.InitiateBankTransfer)
	transfers.Post("/confirm", h.ConfirmBankTransfer)
	transfers.Get("/status/:transactionId", h.GetBankTransferStatus)
	transfers.Post("/verify/:transactionId", middleware.AdminRequired(), h.VerifyBankTransfer)
}

func InvoiceRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	invoices := api.Group("/invoices", middleware.Protected(h.JWTSecret))
	invoices.Post("/generate/:paymentId", h.GenerateInvoice)
	invoices.Get("/:invoiceId", h.GetInvoicePdf)
}

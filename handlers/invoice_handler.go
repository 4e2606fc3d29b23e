package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GenerateInvoice(c *fiber.Ctx) error {
	paymentID, ok := paramUUID(c, "paymentId")
	if !ok {
		return badRequest(c, "Invalid payment ID format")
	}

	payment, err := h.Payments.GetPayment(c.UserContext(), paymentID)
	if err != nil {
		return respondError(c, err)
	}
	if !ownsPayment(c, payment) {
		return forbidden(c)
	}

	invoice, err := h.Invoices.GenerateInvoice(c.UserContext(), paymentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func (h *Handler) GetInvoicePdf(c *fiber.Ctx) error {
	invoiceID, ok := paramUUID(c, "invoiceId")
	if !ok {
		return badRequest(c, "Invalid invoice ID format")
	}

	pdf, invoice, err := h.Invoices.GetInvoicePdf(c.UserContext(), invoiceID)
	if err != nil {
		return respondError(c, err)
	}
	if !ownsPayment(c, &invoice.Payment) {
		return forbidden(c)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s.pdf\"", invoice.InvoiceNumber))
	return c.Send(pdf)
}

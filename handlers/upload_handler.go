package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// GetReceiptUploadSignature lets the browser upload a bank transfer receipt
// directly to Cloudinary; the resulting URL is sent with the confirm call.
func (h *Handler) GetReceiptUploadSignature(c *fiber.Ctx) error {
	if h.Uploads == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Uploads are not configured"})
	}

	sig, err := h.Uploads.SignReceiptUpload()
	if err != nil {
		log.Printf("🔥 Failed to sign receipt upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}
	return c.JSON(sig)
}

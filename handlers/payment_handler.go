package handlers

import (
	"log"

	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InitiatePaymentRequest struct {
	CourseID string          `json:"courseId" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"required,len=3"`
	Provider string          `json:"provider" validate:"required"`
}

func (h *Handler) InitiatePayment(c *fiber.Ctx) error {
	var req InitiatePaymentRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	studentID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}

	res, err := h.Payments.InitiatePayment(c.UserContext(), services.InitiatePaymentInput{
		CourseID:  uuid.MustParse(req.CourseID),
		StudentID: &studentID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Provider:  req.Provider,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	StudentID     string `json:"studentId" validate:"omitempty,uuid"`
	Status        string `json:"status"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// ConfirmPayment is a status poll for card payments: the gateway, not the
// request body, decides the outcome.
func (h *Handler) ConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	studentID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}
	if req.StudentID != "" && uuid.MustParse(req.StudentID) != studentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "studentId does not match the authenticated user"})
	}

	payment, err := h.Payments.ConfirmPayment(c.UserContext(), services.ConfirmPaymentInput{
		TransactionID: req.TransactionID,
		StudentID:     studentID,
		Status:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(payment)
}

func (h *Handler) GetPaymentStatus(c *fiber.Ctx) error {
	payment, err := h.Payments.GetPaymentStatus(c.UserContext(), c.Params("transactionId"))
	if err != nil {
		return respondError(c, err)
	}
	if !ownsPayment(c, payment) {
		return forbidden(c)
	}
	return c.JSON(payment)
}

// HandlePaymentWebhook needs the untouched body; the signature covers the raw bytes.
func (h *Handler) HandlePaymentWebhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	res, err := h.Webhooks.HandleWebhook(c.UserContext(), payload, c.Get("Stripe-Signature"))
	if err != nil {
		return respondError(c, err)
	}

	if res.Duplicate {
		log.Printf("Webhook %s already processed", res.EventID)
	}
	return c.JSON(fiber.Map{"received": true, "eventId": res.EventID, "duplicate": res.Duplicate})
}

package handlers

import (
	"errors"
	"log"

	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/anjiri1684/eduplatform/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

type UploadSigner interface {
	SignReceiptUpload() (*services.UploadSignature, error)
}

// Handler holds the services the HTTP layer maps requests onto.
type Handler struct {
	Payments      *services.PaymentService
	BankTransfers *services.BankTransferService
	Webhooks      *services.WebhookService
	Invoices      *services.InvoiceService
	Courses       *services.CourseService
	Uploads       UploadSigner
	Hub           *websocket.Hub
	JWTSecret     string
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and hidden behind a 500.
func respondError(c *fiber.Ctx, err error) error {
	var gatewayErr *services.GatewayError
	code := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyPurchased), errors.Is(err, services.ErrInvalidTransition):
		code = fiber.StatusConflict
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrSignatureInvalid):
		code = fiber.StatusBadRequest
	case errors.As(err, &gatewayErr):
		// A declined card or unreachable provider; the provider's message is passed through.
		code = fiber.StatusPaymentRequired
	}

	if code == fiber.StatusInternalServerError {
		log.Printf("🔥 %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(code).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("cannot parse JSON")
	}
	return validate.Struct(out)
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// mayAccess is the ownership rule for payments and everything hanging off them:
// the paying student, an admin, or anyone while no student is attached yet.
func mayAccess(userID uuid.UUID, role string, p *models.Payment) bool {
	if role == models.RoleAdmin || p.StudentID == nil {
		return true
	}
	return userID != uuid.Nil && userID == *p.StudentID
}

func ownsPayment(c *fiber.Ctx, p *models.Payment) bool {
	userID, _ := middleware.UserID(c)
	return mayAccess(userID, middleware.Role(c), p)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden: payment belongs to another student"})
}

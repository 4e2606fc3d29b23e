package handlers

import (
	"time"

	"github.com/anjiri1684/eduplatform/middleware"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InitiateBankTransferRequest struct {
	CourseID      string          `json:"courseId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	BankName      string          `json:"bankName" validate:"required,max=255"`
	AccountNumber string          `json:"accountNumber" validate:"required,max=64"`
	AccountHolder string          `json:"accountHolder" validate:"required,max=255"`
}

func (h *Handler) InitiateBankTransfer(c *fiber.Ctx) error {
	var req InitiateBankTransferRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	studentID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user in token"})
	}

	transfer, err := h.BankTransfers.CreateBankTransferDetails(c.UserContext(), services.CreateBankTransferInput{
		CourseID:      uuid.MustParse(req.CourseID),
		StudentID:     &studentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transactionId":   transfer.Payment.TransactionID,
		"referenceNumber": transfer.ReferenceNumber,
		"status":          transfer.Status,
		"transfer":        transfer,
	})
}

type ConfirmBankTransferRequest struct {
	TransactionID   string `json:"transactionId" validate:"required"`
	ReferenceNumber string `json:"referenceNumber" validate:"max=64"`
	TransferDate    string `json:"transferDate"`
	ReceiptImageURL string `json:"receiptImageUrl" validate:"omitempty,url"`
	Notes           string `json:"notes" validate:"max=1000"`
}

func (h *Handler) ConfirmBankTransfer(c *fiber.Ctx) error {
	var req ConfirmBankTransferRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	var transferDate *time.Time
	if req.TransferDate != "" {
		d, err := parseDate(req.TransferDate)
		if err != nil {
			return badRequest(c, "Invalid transferDate format. Use YYYY-MM-DD or RFC 3339.")
		}
		transferDate = &d
	}

	existing, err := h.BankTransfers.GetBankTransfer(c.UserContext(), req.TransactionID)
	if err != nil {
		return respondError(c, err)
	}
	if !ownsPayment(c, &existing.Payment) {
		return forbidden(c)
	}

	transfer, err := h.BankTransfers.ConfirmBankTransfer(c.UserContext(), services.ConfirmBankTransferInput{
		TransactionID:   req.TransactionID,
		ReferenceNumber: req.ReferenceNumber,
		TransferDate:    transferDate,
		ReceiptImageURL: req.ReceiptImageURL,
		Notes:           req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transfer)
}

type VerifyBankTransferRequest struct {
	IsVerified *bool  `json:"isVerified" validate:"required"`
	Notes      string `json:"notes" validate:"max=1000"`
}

func (h *Handler) VerifyBankTransfer(c *fiber.Ctx) error {
	var req VerifyBankTransferRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	transfer, err := h.BankTransfers.VerifyBankTransfer(c.UserContext(), c.Params("transactionId"), *req.IsVerified, req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transfer)
}

func (h *Handler) GetBankTransferStatus(c *fiber.Ctx) error {
	transfer, err := h.BankTransfers.GetBankTransfer(c.UserContext(), c.Params("transactionId"))
	if err != nil {
		return respondError(c, err)
	}
	if !ownsPayment(c, &transfer.Payment) {
		return forbidden(c)
	}
	return c.JSON(transfer)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

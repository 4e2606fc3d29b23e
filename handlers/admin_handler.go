package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/anjiri1684/eduplatform/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) AdminGetPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.Payments.ListPayments(c.UserContext(), services.PaymentFilter{
		Status:   c.Query("status"),
		Provider: c.Query("provider"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": result.Data,
		"meta": fiber.Map{"total": result.Total, "page": result.Page, "last_page": result.LastPage},
	})
}

func (h *Handler) GenerateTransactionReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return badRequest(c, "Invalid start_date format. Use YYYY-MM-DD.")
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return badRequest(c, "Invalid end_date format. Use YYYY-MM-DD.")
	}
	endOfDay := endDate.Add(24*time.Hour - time.Nanosecond)

	b := new(bytes.Buffer)
	if err := h.Payments.TransactionReport(c.UserContext(), startDate, endOfDay, b); err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))
	return c.Send(b.Bytes())
}

func (h *Handler) ListPendingBankTransfers(c *fiber.Ctx) error {
	transfers, err := h.BankTransfers.ListPendingBankTransfers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transfers)
}

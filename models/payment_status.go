package models

import (
	"fmt"
	"strings"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentProcessing PaymentStatus = "Processing"
	PaymentSucceeded  PaymentStatus = "Succeeded"
	PaymentFailed     PaymentStatus = "Failed"
	PaymentCancelled  PaymentStatus = "Cancelled"
	PaymentRefunded   PaymentStatus = "Refunded"
)

// ParsePaymentStatus maps the status vocabularies seen at the API boundary onto
// PaymentStatus. "Completed" is the bank-transfer name for a settled payment.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return PaymentPending, nil
	case "processing":
		return PaymentProcessing, nil
	case "succeeded", "completed":
		return PaymentSucceeded, nil
	case "failed":
		return PaymentFailed, nil
	case "cancelled", "canceled":
		return PaymentCancelled, nil
	case "refunded":
		return PaymentRefunded, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentSucceeded, PaymentFailed, PaymentCancelled, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentSucceeded
}

// CanTransitionTo reports whether a payment may move from s to next.
// Terminal statuses are final except for a refund of a settled payment and a
// declined card intent that the customer pays on retry.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch {
	case s == next:
		return true
	case s == PaymentSucceeded:
		return next == PaymentRefunded
	case s == PaymentFailed:
		return next == PaymentSucceeded || next == PaymentProcessing
	}
	return !s.IsTerminal()
}

// AwaitsProvider reports whether the gateway can still change the outcome.
func (s PaymentStatus) AwaitsProvider() bool {
	return !s.IsTerminal() || s == PaymentFailed
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BankTransferService struct {
	db       *gorm.DB
	payments *PaymentService
	now      func() time.Time
}

func NewBankTransferService(db *gorm.DB, payments *PaymentService) *BankTransferService {
	return &BankTransferService{
		db:       db,
		payments: payments,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateBankTransferInput struct {
	CourseID      uuid.UUID
	StudentID     *uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	BankName      string
	AccountNumber string
	AccountHolder string
}

// CreateBankTransferDetails opens a BankTransfer payment and its detail row in
// one transaction, so a payment never exists without its reference number.
func (s *BankTransferService) CreateBankTransferDetails(ctx context.Context, in CreateBankTransferInput) (*models.BankTransferPayment, error) {
	if strings.TrimSpace(in.BankName) == "" || strings.TrimSpace(in.AccountNumber) == "" || strings.TrimSpace(in.AccountHolder) == "" {
		return nil, validationErrorf("bank name, account number and account holder are required")
	}

	var transfer models.BankTransferPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		payment, _, err := s.payments.createPendingPayment(tx, InitiatePaymentInput{
			CourseID:  in.CourseID,
			StudentID: in.StudentID,
			Amount:    in.Amount,
			Currency:  in.Currency,
			Provider:  models.ProviderBankTransfer,
		}, &course)
		if err != nil {
			return err
		}

		ref, err := utils.GenerateUniqueReferenceNumber(tx, s.now())
		if err != nil {
			return err
		}

		transfer = models.BankTransferPayment{
			PaymentID:       payment.ID,
			BankName:        strings.TrimSpace(in.BankName),
			AccountNumber:   strings.TrimSpace(in.AccountNumber),
			AccountHolder:   strings.TrimSpace(in.AccountHolder),
			ReferenceNumber: ref,
			Status:          models.BankTransferPending,
		}
		if err := tx.Omit(clause.Associations).Create(&transfer).Error; err != nil {
			return fmt.Errorf("failed to create bank transfer details: %w", err)
		}
		transfer.Payment = *payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Bank transfer %s opened for transaction %s", transfer.ReferenceNumber, transfer.Payment.TransactionID)
	return &transfer, nil
}

type ConfirmBankTransferInput struct {
	TransactionID   string
	ReferenceNumber string
	TransferDate    *time.Time
	ReceiptImageURL string
	Notes           string
}

// ConfirmBankTransfer records the student's transfer evidence. The status stays
// Pending until an admin verifies it.
func (s *BankTransferService) ConfirmBankTransfer(ctx context.Context, in ConfirmBankTransferInput) (*models.BankTransferPayment, error) {
	var transfer *models.BankTransferPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transfer, err = findTransfer(tx, in.TransactionID, true)
		if err != nil {
			return err
		}
		if transfer.Status.IsTerminal() {
			return fmt.Errorf("%w: bank transfer is already %s", ErrInvalidTransition, transfer.Status)
		}

		if ref := strings.TrimSpace(in.ReferenceNumber); ref != "" {
			transfer.ReferenceNumber = ref
		}
		if in.TransferDate != nil {
			d := in.TransferDate.UTC()
			transfer.TransferDate = &d
		}
		if in.ReceiptImageURL != "" {
			url := in.ReceiptImageURL
			transfer.ReceiptImageURL = &url
		}
		if in.Notes != "" {
			notes := in.Notes
			transfer.VerificationNotes = &notes
		}

		return tx.Omit(clause.Associations).Save(transfer).Error
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// VerifyBankTransfer is the only path that settles a bank-transfer payment.
// Rejection is terminal and leaves the payment untouched.
func (s *BankTransferService) VerifyBankTransfer(ctx context.Context, transactionID string, isVerified bool, notes string) (*models.BankTransferPayment, error) {
	var transfer *models.BankTransferPayment
	var settled *models.Payment
	var changed bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		transfer, err = findTransfer(tx, transactionID, true)
		if err != nil {
			return err
		}
		if transfer.Status != models.BankTransferPending {
			return fmt.Errorf("%w: bank transfer is already %s", ErrInvalidTransition, transfer.Status)
		}

		verifiedAt := s.now()
		transfer.VerifiedAt = &verifiedAt
		transfer.Status = models.BankTransferRejected
		if isVerified {
			transfer.Status = models.BankTransferVerified
		}
		if notes != "" {
			n := notes
			transfer.VerificationNotes = &n
		}
		if err := tx.Omit(clause.Associations).Save(transfer).Error; err != nil {
			return err
		}

		if isVerified {
			settled, changed, err = s.payments.settleVerifiedTransfer(tx, transfer.PaymentID)
			if err != nil {
				return err
			}
			transfer.Payment = *settled
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.payments.notify(*settled)
	}
	log.Printf("✅ Bank transfer %s for transaction %s marked %s", transfer.ReferenceNumber, transactionID, transfer.Status)
	return transfer, nil
}

func (s *BankTransferService) GetBankTransfer(ctx context.Context, transactionID string) (*models.BankTransferPayment, error) {
	return findTransfer(s.db.WithContext(ctx), transactionID, false)
}

func (s *BankTransferService) ListPendingBankTransfers(ctx context.Context) ([]models.BankTransferPayment, error) {
	var transfers []models.BankTransferPayment
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Where("status = ?", models.BankTransferPending).
		Order("created_at asc").
		Find(&transfers).Error
	return transfers, err
}

func findTransfer(tx *gorm.DB, transactionID string, lock bool) (*models.BankTransferPayment, error) {
	var payment models.Payment
	if err := tx.Where("transaction_id = ? AND provider = ?", transactionID, models.ProviderBankTransfer).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("bank transfer for transaction %s", transactionID)
		}
		return nil, err
	}

	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var transfer models.BankTransferPayment
	if err := q.Where("payment_id = ?", payment.ID).First(&transfer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("bank transfer for transaction %s", transactionID)
		}
		return nil, err
	}
	transfer.Payment = payment
	return &transfer, nil
}

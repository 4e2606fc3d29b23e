package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const referenceCodeLength = 5
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const maxReferenceAttempts = 20

func randomCode(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[r.Intn(len(letterBytes))]
	}
	return string(b)
}

// GenerateUniqueReferenceNumber returns a bank-transfer reference of the form
// BT-<year>-<5 chars> that no existing transfer uses.
func GenerateUniqueReferenceNumber(tx *gorm.DB, now time.Time) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < maxReferenceAttempts; i++ {
		ref := fmt.Sprintf("BT-%d-%s", now.Year(), randomCode(seededRand, referenceCodeLength))

		var transfer models.BankTransferPayment
		err := tx.Select("id").Where("reference_number = ?", ref).First(&transfer).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ref, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique reference number after %d attempts", maxReferenceAttempts)
}

// InvoiceNumber is deterministic: INV-<yyyyMMdd>-<first 8 chars of the payment id>.
func InvoiceNumber(issueDate time.Time, paymentID uuid.UUID) string {
	return fmt.Sprintf("INV-%s-%s", issueDate.UTC().Format("20060102"), paymentID.String()[:8])
}

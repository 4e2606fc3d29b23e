package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BankTransferStatus string

const (
	BankTransferPending  BankTransferStatus = "Pending"
	BankTransferVerified BankTransferStatus = "Verified"
	BankTransferRejected BankTransferStatus = "Rejected"
)

func (s BankTransferStatus) IsTerminal() bool {
	return s == BankTransferVerified || s == BankTransferRejected
}

type BankTransferPayment struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID         uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"paymentId"`
	BankName          string             `gorm:"size:255;not null" json:"bankName"`
	AccountNumber     string             `gorm:"size:64;not null" json:"accountNumber"`
	AccountHolder     string             `gorm:"size:255;not null" json:"accountHolder"`
	ReferenceNumber   string             `gorm:"size:64;not null;index" json:"referenceNumber"`
	TransferDate      *time.Time         `json:"transferDate"`
	ReceiptImageURL   *string            `gorm:"type:text" json:"receiptImageUrl"`
	Status            BankTransferStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	VerificationNotes *string            `gorm:"type:text" json:"verificationNotes"`
	CreatedAt         time.Time          `json:"createdAt"`
	VerifiedAt        *time.Time         `json:"verifiedAt"`

	Payment Payment `gorm:"foreignKey:PaymentID" json:"payment"`
}

func (b *BankTransferPayment) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProviderStripe       = "Stripe"
	ProviderPayPal       = "PayPal"
	ProviderBankTransfer = "BankTransfer"
)

type Payment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID    string          `gorm:"size:64;not null;uniqueIndex" json:"transactionId"`
	CourseID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_payments_course_student" json:"courseId"`
	StudentID        *uuid.UUID      `gorm:"type:uuid;index:idx_payments_course_student" json:"studentId"`
	Amount           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency         string          `gorm:"size:3;not null" json:"currency"`
	Provider         string          `gorm:"size:50;not null" json:"provider"`
	ProviderIntentID *string         `gorm:"size:255;uniqueIndex" json:"providerIntentId,omitempty"`
	Status           PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	PaidAt           *time.Time      `json:"paidAt"`
	Notes            *string         `gorm:"type:text" json:"notes"`

	Course  Course `gorm:"foreignKey:CourseID" json:"-"`
	Student *User  `gorm:"foreignKey:StudentID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsGatewayBacked reports whether the payment settles through an external card gateway.
func (p *Payment) IsGatewayBacked() bool {
	return p.Provider != ProviderBankTransfer
}

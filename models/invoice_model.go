package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"paymentId"`
	InvoiceNumber string    `gorm:"size:32;not null;uniqueIndex" json:"invoiceNumber"`
	IssueDate     time.Time `gorm:"not null" json:"issueDate"`
	FilePath      string    `gorm:"type:text;not null" json:"-"`
	ArchiveURL    *string   `gorm:"type:text" json:"archiveUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	Payment Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

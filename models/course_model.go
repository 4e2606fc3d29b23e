package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft           CourseStatus = "Draft"
	CoursePendingApproval CourseStatus = "PendingApproval"
	CoursePublished       CourseStatus = "Published"
	CourseRejected        CourseStatus = "Rejected"
)

type Course struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InstructorID uuid.UUID       `gorm:"type:uuid;not null;index" json:"instructorId"`
	Title        string          `gorm:"size:200;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency     string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Status       CourseStatus    `gorm:"size:20;not null;default:'Draft';index" json:"status"`
	PublishedAt  *time.Time      `json:"publishedAt"`

	Instructor User `gorm:"foreignKey:InstructorID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

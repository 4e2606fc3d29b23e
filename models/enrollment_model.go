package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Enrollment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_student" json:"courseId"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_course_student" json:"studentId"`
	PaymentID   *uuid.UUID `gorm:"type:uuid" json:"paymentId"`
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	Progress    int        `gorm:"not null;default:0;check:progress >= 0 AND progress <= 100" json:"progress"`
	EnrolledAt  time.Time  `gorm:"not null" json:"enrolledAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

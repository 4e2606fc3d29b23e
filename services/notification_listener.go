package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/notifications"
	"gorm.io/gorm"
)

// NewPaymentMailer returns a listener that emails the student when a payment
// settles or fails. Sending happens off the request goroutine.
func NewPaymentMailer(db *gorm.DB, mailer notifications.Mailer) StatusListener {
	return func(p models.Payment) {
		if p.StudentID == nil {
			return
		}
		var subject, body string
		switch p.Status {
		case models.PaymentSucceeded:
			subject = "Payment Confirmed!"
			body = "<h1>Success!</h1><p>Your payment of %s %s for <strong>%s</strong> was received. You are now enrolled.</p>"
		case models.PaymentFailed:
			subject = "Your Payment Did Not Go Through"
			body = "<h1>Payment Failed</h1><p>Your payment of %s %s for <strong>%s</strong> could not be completed. Please try again.</p>"
		default:
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			var student models.User
			var course models.Course
			if err := db.WithContext(ctx).First(&student, "id = ?", *p.StudentID).Error; err != nil {
				log.Printf("🔥 Payment email: student %s not found: %v", *p.StudentID, err)
				return
			}
			if err := db.WithContext(ctx).First(&course, "id = ?", p.CourseID).Error; err != nil {
				log.Printf("🔥 Payment email: course %s not found: %v", p.CourseID, err)
				return
			}

			content := fmt.Sprintf(body, p.Amount.StringFixed(2), p.Currency, html.EscapeString(course.Title))
			if err := mailer.Send(ctx, student.FullName, student.Email, subject, content); err != nil {
				log.Printf("🔥 Failed to send email to %s: %v", student.Email, err)
			}
		}()
	}
}

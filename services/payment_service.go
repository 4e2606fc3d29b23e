package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/payments"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validate = validator.New()

// Stripe keeps a declined intent open for another card; it is re-polled this long.
const declinedRetryWindow = 24 * time.Hour

// StatusListener is called after a payment status change has been committed.
type StatusListener func(payment models.Payment)

type PaymentService struct {
	db       *gorm.DB
	gateways *payments.Registry
	now      func() time.Time

	mu        sync.RWMutex
	listeners []StatusListener
}

func NewPaymentService(db *gorm.DB, gateways *payments.Registry) *PaymentService {
	return &PaymentService{
		db:       db,
		gateways: gateways,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *PaymentService) OnStatusChange(fn StatusListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *PaymentService) notify(payment models.Payment) {
	s.mu.RLock()
	listeners := append([]StatusListener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(payment)
	}
}

type InitiatePaymentInput struct {
	CourseID  uuid.UUID
	StudentID *uuid.UUID
	Amount    decimal.Decimal
	Currency  string
	Provider  string
}

type InitiatePaymentResult struct {
	PaymentID     uuid.UUID            `json:"paymentId"`
	TransactionID string               `json:"transactionId"`
	ClientSecret  string               `json:"clientSecret,omitempty"`
	Provider      string               `json:"provider"`
	Status        models.PaymentStatus `json:"status"`
}

// InitiatePayment records a Pending payment and, for card providers, opens an
// intent with the gateway. The gateway is called outside the database transaction.
func (s *PaymentService) InitiatePayment(ctx context.Context, in InitiatePaymentInput) (*InitiatePaymentResult, error) {
	var payment *models.Payment
	var gateway payments.Gateway
	var course models.Course

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, gateway, err = s.createPendingPayment(tx, in, &course)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &InitiatePaymentResult{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		Provider:      payment.Provider,
		Status:        payment.Status,
	}
	if gateway == nil {
		return result, nil
	}

	intent, err := gateway.CreateIntent(ctx, payments.IntentRequest{
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Description:   course.Title,
	})
	if err != nil {
		log.Printf("🔥 %s intent creation failed for transaction %s: %v", gateway.Provider(), payment.TransactionID, err)
		note := err.Error()
		updateErr := s.db.WithContext(context.WithoutCancel(ctx)).Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{"status": models.PaymentFailed, "notes": note}).Error
		if updateErr != nil {
			log.Printf("🔥 Failed to mark payment %s as failed: %v", payment.ID, updateErr)
		} else {
			payment.Status = models.PaymentFailed
			payment.Notes = &note
			s.notify(*payment)
		}
		return nil, &GatewayError{Provider: gateway.Provider(), Err: err}
	}

	if err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", payment.ID).
		Update("provider_intent_id", intent.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store gateway intent: %w", err)
	}

	result.ClientSecret = intent.ClientSecret
	return result, nil
}

// createPendingPayment validates the request and inserts the Pending payment
// using tx. It returns the gateway to open an intent with, or nil for manual providers.
func (s *PaymentService) createPendingPayment(tx *gorm.DB, in InitiatePaymentInput, course *models.Course) (*models.Payment, payments.Gateway, error) {
	if !in.Amount.IsPositive() {
		return nil, nil, validationErrorf("amount must be greater than zero")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := validate.Var(currency, "required,iso4217"); err != nil {
		return nil, nil, validationErrorf("unsupported currency %q", in.Currency)
	}
	provider, gateway, err := s.resolveProvider(in.Provider)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.First(course, "id = ? AND status = ?", in.CourseID, models.CoursePublished).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundf("course %s", in.CourseID)
		}
		return nil, nil, err
	}
	if !course.Price.Equal(in.Amount) || !strings.EqualFold(course.Currency, currency) {
		return nil, nil, validationErrorf("amount must be %s %s", course.Price.StringFixed(2), course.Currency)
	}

	if in.StudentID != nil {
		purchased, err := isCourseAlreadyPurchased(tx, in.CourseID, *in.StudentID)
		if err != nil {
			return nil, nil, err
		}
		if purchased {
			return nil, nil, ErrAlreadyPurchased
		}
	}

	payment := &models.Payment{
		TransactionID: uuid.NewString(),
		CourseID:      in.CourseID,
		StudentID:     in.StudentID,
		Amount:        in.Amount.Round(2),
		Currency:      currency,
		Provider:      provider,
		Status:        models.PaymentPending,
	}
	if err := tx.Omit(clause.Associations).Create(payment).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, gateway, nil
}

func (s *PaymentService) resolveProvider(name string) (string, payments.Gateway, error) {
	if strings.EqualFold(strings.TrimSpace(name), models.ProviderBankTransfer) {
		return models.ProviderBankTransfer, nil, nil
	}
	if g, ok := s.gateways.Lookup(name); ok {
		return g.Provider(), g, nil
	}
	return "", nil, validationErrorf("unknown payment provider %q", name)
}

type ConfirmPaymentInput struct {
	TransactionID string
	StudentID     uuid.UUID
	// Status is only honoured for manual providers, and only to cancel.
	Status string
	Notes  string
}

// ConfirmPayment re-derives the payment status and settles it. Card payments
// take their status from the gateway; the status sent by the client is ignored.
func (s *PaymentService) ConfirmPayment(ctx context.Context, in ConfirmPaymentInput) (*models.Payment, error) {
	payment, err := s.GetPaymentStatus(ctx, in.TransactionID)
	if err != nil {
		return nil, err
	}

	next := payment.Status
	if payment.IsGatewayBacked() {
		if payment.ProviderIntentID != nil && payment.Status.AwaitsProvider() {
			gateway, ok := s.gateways.Lookup(payment.Provider)
			if !ok {
				return nil, fmt.Errorf("no gateway configured for provider %s", payment.Provider)
			}
			next, err = gateway.FetchStatus(ctx, *payment.ProviderIntentID)
			if err != nil {
				return nil, &GatewayError{Provider: payment.Provider, Err: err}
			}
		}
	} else if in.Status != "" {
		requested, err := models.ParsePaymentStatus(in.Status)
		if err != nil {
			return nil, validationErrorf("%v", err)
		}
		if requested == models.PaymentCancelled && !payment.Status.IsTerminal() {
			next = models.PaymentCancelled
		}
	}

	var updated models.Payment
	var changed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockPayment(tx, "id = ?", payment.ID)
		if err != nil {
			return err
		}

		if locked.StudentID == nil {
			studentID := in.StudentID
			locked.StudentID = &studentID
		} else if *locked.StudentID != in.StudentID {
			return validationErrorf("payment %s belongs to another student", locked.TransactionID)
		}
		if in.Notes != "" {
			notes := in.Notes
			locked.Notes = &notes
		}

		// A declined intent waiting for another card stays Failed.
		if locked.Status == models.PaymentFailed && !locked.Status.CanTransitionTo(next) {
			next = locked.Status
		}

		changed, err = s.applyStatus(tx, locked, next)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(locked).Error; err != nil {
			return err
		}
		updated = *locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notify(updated)
	}
	return &updated, nil
}

// ApplyProviderStatus is the writer used by verified webhooks and the
// reconciliation job. The payment is located by its gateway intent id.
func (s *PaymentService) ApplyProviderStatus(ctx context.Context, provider, intentID string, status models.PaymentStatus, note string) (*models.Payment, error) {
	var updated models.Payment
	var changed bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockPayment(tx, "provider = ? AND provider_intent_id = ?", provider, intentID)
		if err != nil {
			return err
		}

		changed, err = s.applyStatus(tx, locked, status)
		if err != nil {
			return err
		}
		if !changed && note == "" {
			updated = *locked
			return nil
		}
		if note != "" {
			locked.Notes = &note
		}
		if err := tx.Omit(clause.Associations).Save(locked).Error; err != nil {
			return err
		}
		updated = *locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notify(updated)
	}
	return &updated, nil
}

// settleVerifiedTransfer marks a manual payment Succeeded inside the caller's transaction.
func (s *PaymentService) settleVerifiedTransfer(tx *gorm.DB, paymentID uuid.UUID) (*models.Payment, bool, error) {
	locked, err := lockPayment(tx, "id = ?", paymentID)
	if err != nil {
		return nil, false, err
	}
	changed, err := s.applyStatus(tx, locked, models.PaymentSucceeded)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Omit(clause.Associations).Save(locked).Error; err != nil {
		return nil, false, err
	}
	return locked, changed, nil
}

// applyStatus moves p to next and, when next is Succeeded and the student is
// known, creates the enrollment. The caller saves p.
func (s *PaymentService) applyStatus(tx *gorm.DB, p *models.Payment, next models.PaymentStatus) (bool, error) {
	if !p.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: payment %s is %s and cannot become %s", ErrInvalidTransition, p.TransactionID, p.Status, next)
	}

	changed := p.Status != next
	p.Status = next
	if next.IsSuccessful() {
		if p.PaidAt == nil {
			paidAt := s.now()
			p.PaidAt = &paidAt
		}
		if p.StudentID != nil {
			if err := s.enroll(tx, p); err != nil {
				return false, err
			}
		}
	}
	return changed, nil
}

// enroll enforces one successful payment and one enrollment per (course, student).
// The unique index on enrollments is what actually holds under concurrency.
func (s *PaymentService) enroll(tx *gorm.DB, p *models.Payment) error {
	var others int64
	if err := tx.Model(&models.Payment{}).
		Where("course_id = ? AND student_id = ? AND status = ? AND id <> ?", p.CourseID, *p.StudentID, models.PaymentSucceeded, p.ID).
		Count(&others).Error; err != nil {
		return err
	}
	if others > 0 {
		return ErrAlreadyPurchased
	}

	paymentID := p.ID
	enrollment := models.Enrollment{
		CourseID:   p.CourseID,
		StudentID:  *p.StudentID,
		PaymentID:  &paymentID,
		EnrolledAt: s.now(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
	if res.Error != nil {
		return fmt.Errorf("failed to create enrollment: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// A concurrent settlement won the unique index; only its own payment may re-enroll.
	var existing models.Enrollment
	if err := tx.Where("course_id = ? AND student_id = ?", p.CourseID, *p.StudentID).First(&existing).Error; err != nil {
		return fmt.Errorf("failed to load enrollment: %w", err)
	}
	if existing.PaymentID == nil || *existing.PaymentID != p.ID {
		return ErrAlreadyPurchased
	}
	return nil
}

func lockPayment(tx *gorm.DB, query string, args ...interface{}) (*models.Payment, error) {
	var payment models.Payment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(query, args...).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("payment")
		}
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) IsCourseAlreadyPurchased(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	return isCourseAlreadyPurchased(s.db.WithContext(ctx), courseID, studentID)
}

func isCourseAlreadyPurchased(db *gorm.DB, courseID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Payment{}).
		Where("course_id = ? AND student_id = ? AND status = ?", courseID, studentID, models.PaymentSucceeded).
		Count(&count).Error
	return count > 0, err
}

func (s *PaymentService) GetPaymentStatus(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("payment %s", transactionID)
		}
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("payment %s", id)
		}
		return nil, err
	}
	return &payment, nil
}

// ReconcileStale re-polls card payments that have been Pending or Processing
// for longer than olderThan, plus recently declined ones that may have been
// paid on retry, and applies whatever the gateway reports.
func (s *PaymentService) ReconcileStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	now := s.now()
	var stale []models.Payment
	err := s.db.WithContext(ctx).
		Where("provider <> ? AND provider_intent_id IS NOT NULL", models.ProviderBankTransfer).
		Where(s.db.Where("status IN ? AND created_at < ?",
			[]models.PaymentStatus{models.PaymentPending, models.PaymentProcessing}, now.Add(-olderThan)).
			Or("status = ? AND updated_at > ?", models.PaymentFailed, now.Add(-declinedRetryWindow))).
		Order("created_at asc").
		Limit(limit).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range stale {
		gateway, ok := s.gateways.Lookup(p.Provider)
		if !ok {
			continue
		}
		status, err := gateway.FetchStatus(ctx, *p.ProviderIntentID)
		if err != nil {
			log.Printf("🔥 Reconcile: %s status lookup failed for %s: %v", p.Provider, p.TransactionID, err)
			continue
		}
		if status == p.Status || !p.Status.CanTransitionTo(status) {
			continue
		}
		if _, err := s.ApplyProviderStatus(ctx, p.Provider, *p.ProviderIntentID, status, ""); err != nil {
			log.Printf("🔥 Reconcile: failed to apply %s to %s: %v", status, p.TransactionID, err)
			continue
		}
		updated++
	}
	return updated, nil
}

type PaymentFilter struct {
	Status   string
	Provider string
	Page     int
	Limit    int
}

type PaymentPage struct {
	Data     []models.Payment `json:"data"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	LastPage int              `json:"last_page"`
}

func (s *PaymentService) ListPayments(ctx context.Context, f PaymentFilter) (*PaymentPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}

	query := s.db.WithContext(ctx).Model(&models.Payment{})
	if f.Status != "" {
		status, err := models.ParsePaymentStatus(f.Status)
		if err != nil {
			return nil, validationErrorf("%v", err)
		}
		query = query.Where("status = ?", status)
	}
	if f.Provider != "" {
		query = query.Where("LOWER(provider) = ?", strings.ToLower(f.Provider))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var list []models.Payment
	err := query.Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	return &PaymentPage{
		Data:     list,
		Total:    total,
		Page:     f.Page,
		LastPage: int(math.Ceil(float64(total) / float64(f.Limit))),
	}, nil
}

// TransactionReport writes succeeded payments created in [from, to] as CSV.
func (s *PaymentService) TransactionReport(ctx context.Context, from, to time.Time, w io.Writer) error {
	var list []models.Payment
	err := s.db.WithContext(ctx).
		Preload("Course").
		Preload("Student").
		Where("status = ? AND created_at BETWEEN ? AND ?", models.PaymentSucceeded, from, to).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	headers := []string{"Transaction ID", "Date", "Student Name", "Course", "Amount", "Currency", "Provider", "Reference ID"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, p := range list {
		var studentName, referenceID string
		if p.Student != nil {
			studentName = p.Student.FullName
		}
		if p.ProviderIntentID != nil {
			referenceID = *p.ProviderIntentID
		}
		paidAt := p.CreatedAt
		if p.PaidAt != nil {
			paidAt = *p.PaidAt
		}

		row := []string{
			p.TransactionID,
			paidAt.Format("2006-01-02 15:04"),
			studentName,
			p.Course.Title,
			p.Amount.StringFixed(2),
			p.Currency,
			p.Provider,
			referenceID,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

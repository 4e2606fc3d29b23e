package services

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed templates/invoice.html
var invoiceTemplateSource string

var invoiceTemplate = template.Must(template.New("invoice").Parse(invoiceTemplateSource))

type InvoiceService struct {
	db       *gorm.DB
	renderer Renderer
	root     string
	archiver Archiver
	now      func() time.Time
}

// NewInvoiceService stores PDFs under root. archiver may be nil.
func NewInvoiceService(db *gorm.DB, renderer Renderer, root string, archiver Archiver) *InvoiceService {
	return &InvoiceService{
		db:       db,
		renderer: renderer,
		root:     root,
		archiver: archiver,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type invoiceView struct {
	InvoiceNumber string
	IssueDate     string
	TransactionID string
	Provider      string
	StudentName   string
	StudentEmail  string
	CourseTitle   string
	Amount        string
	Currency      string
}

// GenerateInvoice renders and stores the invoice for a settled payment. A
// payment has at most one invoice; asking again returns the existing one.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, paymentID uuid.UUID) (*models.Invoice, error) {
	db := s.db.WithContext(ctx)

	var payment models.Payment
	if err := db.Preload("Course").Preload("Student").First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("payment %s", paymentID)
		}
		return nil, err
	}
	if !payment.Status.IsSuccessful() {
		return nil, validationErrorf("payment %s is %s, invoices are only issued for succeeded payments", paymentID, payment.Status)
	}

	if existing, err := s.findByPayment(db, payment.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	issueDate := s.now()
	number := utils.InvoiceNumber(issueDate, payment.ID)

	view := invoiceView{
		InvoiceNumber: number,
		IssueDate:     issueDate.Format("January 2, 2006"),
		TransactionID: payment.TransactionID,
		Provider:      payment.Provider,
		StudentName:   "N/A",
		CourseTitle:   payment.Course.Title,
		Amount:        payment.Amount.StringFixed(2),
		Currency:      payment.Currency,
	}
	if payment.Student != nil {
		view.StudentName = payment.Student.FullName
		view.StudentEmail = payment.Student.Email
	}

	var rendered bytes.Buffer
	if err := invoiceTemplate.Execute(&rendered, view); err != nil {
		return nil, fmt.Errorf("failed to render invoice template: %w", err)
	}

	pdf, err := s.renderer.RenderPDF(ctx, rendered.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}

	dir := filepath.Join(s.root, payment.ID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create invoice directory: %w", err)
	}
	path := filepath.Join(dir, number+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write invoice file: %w", err)
	}

	invoice := models.Invoice{
		PaymentID:     payment.ID,
		InvoiceNumber: number,
		IssueDate:     issueDate,
		FilePath:      path,
	}

	if s.archiver != nil {
		url, err := s.archiver.Archive(ctx, pdf, number)
		if err != nil {
			log.Printf("🔥 Failed to archive invoice %s: %v", number, err)
		} else {
			invoice.ArchiveURL = &url
		}
	}

	// Only a concurrent invoice for the same payment is expected; a clash on the
	// invoice number must surface as an error.
	res := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(&invoice)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.findByPayment(db, payment.ID)
	}

	log.Printf("✅ Generated invoice %s for payment %s", number, payment.ID)
	return &invoice, nil
}

// GetInvoicePdf returns the stored PDF with its invoice and payment. A row whose
// file has gone missing is reported as not found.
func (s *InvoiceService) GetInvoicePdf(ctx context.Context, invoiceID uuid.UUID) ([]byte, *models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.WithContext(ctx).Preload("Payment").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, notFoundf("invoice %s", invoiceID)
		}
		return nil, nil, err
	}

	data, err := os.ReadFile(invoice.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, notFoundf("invoice file for %s", invoice.InvoiceNumber)
		}
		return nil, nil, err
	}
	return data, &invoice, nil
}

func (s *InvoiceService) findByPayment(db *gorm.DB, paymentID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := db.First(&invoice, "payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("invoice for payment %s", paymentID)
		}
		return nil, err
	}
	return &invoice, nil
}

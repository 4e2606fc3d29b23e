package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/payments"
	"github.com/anjiri1684/eduplatform/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	provider string

	mu        sync.Mutex
	createErr error
	fetchErr  error
	statuses  map[string]models.PaymentStatus
	requests  []payments.IntentRequest
	fetches   int
	nextID    int
}

func newFakeGateway(provider string) *fakeGateway {
	return &fakeGateway{provider: provider, statuses: map[string]models.PaymentStatus{}}
}

func (g *fakeGateway) Provider() string { return g.provider }

func (g *fakeGateway) CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	id := fmt.Sprintf("pi_%d", g.nextID)
	g.requests = append(g.requests, req)
	g.statuses[id] = models.PaymentPending
	return &payments.Intent{ID: id, ClientSecret: id + "_secret", Status: models.PaymentPending}, nil
}

func (g *fakeGateway) FetchStatus(ctx context.Context, intentID string) (models.PaymentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches++
	if g.fetchErr != nil {
		return "", g.fetchErr
	}
	status, ok := g.statuses[intentID]
	if !ok {
		return "", errors.New("no such payment_intent")
	}
	return status, nil
}

func (g *fakeGateway) set(intentID string, status models.PaymentStatus) {
	g.mu.Lock()
	g.statuses[intentID] = status
	g.mu.Unlock()
}

type fixture struct {
	db       *gorm.DB
	gateway  *fakeGateway
	payments *PaymentService
	course   models.Course
	student  models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	gw := newFakeGateway(models.ProviderStripe)
	return &fixture{
		db:       db,
		gateway:  gw,
		payments: NewPaymentService(db, payments.NewRegistry(gw)),
		course:   testutil.CreatePublishedCourse(t, db),
		student:  testutil.CreateUser(t, db, models.RoleStudent),
	}
}

func (f *fixture) initiate(t *testing.T, provider string, student *uuid.UUID) *InitiatePaymentResult {
	t.Helper()
	res, err := f.payments.InitiatePayment(context.Background(), InitiatePaymentInput{
		CourseID:  f.course.ID,
		StudentID: student,
		Amount:    f.course.Price,
		Currency:  "USD",
		Provider:  provider,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) reload(t *testing.T, transactionID string) models.Payment {
	t.Helper()
	var p models.Payment
	require.NoError(t, f.db.First(&p, "transaction_id = ?", transactionID).Error)
	return p
}

func (f *fixture) enrollments(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", f.course.ID, f.student.ID).
		Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

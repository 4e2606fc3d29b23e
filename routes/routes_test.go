package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/payments"
	"github.com/anjiri1684/eduplatform/services"
	"github.com/anjiri1684/eduplatform/testutil"
	"github.com/anjiri1684/eduplatform/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"
)

const (
	jwtSecret     = "routes-test-secret"
	webhookSecret = "whsec_routes_test"
)

type stubGateway struct {
	mu       sync.Mutex
	n        int
	statuses map[string]models.PaymentStatus
}

func (g *stubGateway) Provider() string { return models.ProviderStripe }

func (g *stubGateway) CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	id := fmt.Sprintf("pi_%d", g.n)
	g.statuses[id] = models.PaymentPending
	return &payments.Intent{ID: id, ClientSecret: id + "_secret", Status: models.PaymentPending}, nil
}

func (g *stubGateway) FetchStatus(ctx context.Context, id string) (models.PaymentStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statuses[id], nil
}

type stubRenderer struct{}

func (stubRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 test"), nil
}

type api struct {
	app     *fiber.App
	db      *gorm.DB
	gateway *stubGateway
	course  models.Course
	student models.User
	admin   models.User
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testutil.NewDB(t)
	gw := &stubGateway{statuses: map[string]models.PaymentStatus{}}

	paymentService := services.NewPaymentService(db, payments.NewRegistry(gw))
	h := &handlers.Handler{
		Payments:      paymentService,
		BankTransfers: services.NewBankTransferService(db, paymentService),
		Webhooks:      services.NewWebhookService(db, payments.NewStripeGateway("sk_test", webhookSecret, nil), paymentService),
		Invoices:      services.NewInvoiceService(db, stubRenderer{}, t.TempDir(), nil),
		Courses:       services.NewCourseService(db),
		Hub:           websocket.NewHub(),
		JWTSecret:     jwtSecret,
	}

	app := fiber.New()
	Register(app, h)

	return &api{
		app:     app,
		db:      db,
		gateway: gw,
		course:  testutil.CreatePublishedCourse(t, db),
		student: testutil.CreateUser(t, db, models.RoleStudent),
		admin:   testutil.CreateUser(t, db, models.RoleAdmin),
	}
}

func bearer(t *testing.T, u models.User) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID.String(),
		"role":    u.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (a *api) do(t *testing.T, method, path string, body interface{}, auth string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func (a *api) initiate(t *testing.T) string {
	t.Helper()
	resp, data := a.do(t, http.MethodPost, "/api/v1/payments/initiate", fiber.Map{
		"courseId": a.course.ID.String(),
		"amount":   49.99,
		"currency": "USD",
		"provider": "stripe",
	}, bearer(t, a.student))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	return decode(t, data)["transactionId"].(string)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	resp, data := a.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestInitiatePayment(t *testing.T) {
	a := newAPI(t)
	auth := bearer(t, a.student)

	resp, data := a.do(t, http.MethodPost, "/api/v1/payments/initiate", fiber.Map{
		"courseId": a.course.ID.String(),
		"amount":   49.99,
		"currency": "USD",
		"provider": "Stripe",
	}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	body := decode(t, data)
	assert.NotEmpty(t, body["transactionId"])
	assert.Equal(t, "pi_1_secret", body["clientSecret"])
	assert.Equal(t, "Pending", body["status"])

	tests := []struct {
		name string
		body fiber.Map
		auth string
		code int
	}{
		{"no token", fiber.Map{"courseId": a.course.ID.String(), "amount": 49.99, "currency": "USD", "provider": "Stripe"}, "", http.StatusBadRequest},
		{"missing fields", fiber.Map{"amount": 49.99}, auth, http.StatusBadRequest},
		{"price mismatch", fiber.Map{"courseId": a.course.ID.String(), "amount": 10, "currency": "USD", "provider": "Stripe"}, auth, http.StatusBadRequest},
		{"unknown provider", fiber.Map{"courseId": a.course.ID.String(), "amount": 49.99, "currency": "USD", "provider": "Bitcoin"}, auth, http.StatusBadRequest},
		{"unknown course", fiber.Map{"courseId": uuid.NewString(), "amount": 49.99, "currency": "USD", "provider": "Stripe"}, auth, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := a.do(t, http.MethodPost, "/api/v1/payments/initiate", tt.body, tt.auth)
			assert.Equal(t, tt.code, resp.StatusCode, string(data))
		})
	}
}

func TestConfirmFollowsGatewayAndRejectsDuplicatePurchase(t *testing.T) {
	a := newAPI(t)
	auth := bearer(t, a.student)
	first := a.initiate(t)
	second := a.initiate(t)

	// The client claims success but the gateway still says pending.
	resp, data := a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{
		"transactionId": first, "studentId": a.student.ID.String(), "status": "Succeeded",
	}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Pending", decode(t, data)["status"])

	a.gateway.statuses["pi_1"] = models.PaymentSucceeded
	a.gateway.statuses["pi_2"] = models.PaymentSucceeded

	resp, data = a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{
		"transactionId": first, "studentId": a.student.ID.String(),
	}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Succeeded", decode(t, data)["status"])

	resp, data = a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{
		"transactionId": second, "studentId": a.student.ID.String(),
	}, auth)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(data))

	resp, _ = a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{
		"transactionId": first, "studentId": uuid.NewString(),
	}, auth)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data = a.do(t, http.MethodGet, "/api/v1/payments/status/"+first, nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Succeeded", decode(t, data)["status"])

	resp, _ = a.do(t, http.MethodGet, "/api/v1/payments/status/missing", nil, auth)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhookEndpoint(t *testing.T) {
	a := newAPI(t)
	txID := a.initiate(t)

	payload := []byte(`{"id":"evt_http","object":"event","api_version":"2020-08-27","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent","status":"succeeded"}}}`)
	post := func(signature string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", signature)
		resp, err := a.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusBadRequest, post("t=1,v1=bad").StatusCode)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: webhookSecret})
	assert.Equal(t, http.StatusOK, post(signed.Header).StatusCode)
	assert.Equal(t, http.StatusOK, post(signed.Header).StatusCode)

	var p models.Payment
	require.NoError(t, a.db.First(&p, "transaction_id = ?", txID).Error)
	assert.Equal(t, models.PaymentSucceeded, p.Status)

	var events int64
	require.NoError(t, a.db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestBankTransferFlow(t *testing.T) {
	a := newAPI(t)
	student := bearer(t, a.student)
	admin := bearer(t, a.admin)

	resp, data := a.do(t, http.MethodPost, "/api/v1/banktransfer/initiate", fiber.Map{
		"courseId":      a.course.ID.String(),
		"amount":        "49.99",
		"currency":      "USD",
		"bankName":      "Equity Bank",
		"accountNumber": "0123456789",
		"accountHolder": "Jane Wanjiru",
	}, student)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := decode(t, data)
	txID := created["transactionId"].(string)
	assert.Regexp(t, `^BT-\d{4}-[A-Z0-9]{5}$`, created["referenceNumber"])

	resp, data = a.do(t, http.MethodPost, "/api/v1/banktransfer/confirm", fiber.Map{
		"transactionId": txID, "referenceNumber": "REF1", "transferDate": "2025-05-02",
	}, student)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	resp, _ = a.do(t, http.MethodPost, "/api/v1/banktransfer/confirm", fiber.Map{
		"transactionId": txID, "transferDate": "02/05/2025",
	}, student)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPost, "/api/v1/banktransfer/verify/"+txID, fiber.Map{"isVerified": true}, student)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data = a.do(t, http.MethodGet, "/api/v1/admin/banktransfers/pending", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &pending))
	assert.Len(t, pending, 1)

	resp, data = a.do(t, http.MethodPost, "/api/v1/banktransfer/verify/"+txID, fiber.Map{"isVerified": true, "notes": "ok"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Verified", decode(t, data)["status"])

	resp, data = a.do(t, http.MethodGet, "/api/v1/banktransfer/status/"+txID, nil, student)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	transfer := decode(t, data)
	assert.Equal(t, "REF1", transfer["referenceNumber"])
	assert.Equal(t, "Succeeded", transfer["payment"].(map[string]interface{})["status"])

	resp, _ = a.do(t, http.MethodPost, "/api/v1/banktransfer/verify/"+txID, fiber.Map{"isVerified": false}, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInvoiceEndpoints(t *testing.T) {
	a := newAPI(t)
	auth := bearer(t, a.student)
	txID := a.initiate(t)

	var p models.Payment
	require.NoError(t, a.db.First(&p, "transaction_id = ?", txID).Error)

	resp, _ := a.do(t, http.MethodPost, "/api/v1/invoices/generate/"+p.ID.String(), nil, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	a.gateway.statuses["pi_1"] = models.PaymentSucceeded
	resp, _ = a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{"transactionId": txID}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := a.do(t, http.MethodPost, "/api/v1/invoices/generate/"+p.ID.String(), nil, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	invoice := decode(t, data)
	assert.Regexp(t, `^INV-\d{8}-[0-9a-f]{8}$`, invoice["invoiceNumber"])

	resp, data = a.do(t, http.MethodGet, "/api/v1/invoices/"+invoice["id"].(string), nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 test", string(data))

	resp, _ = a.do(t, http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil, auth)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/invoices/not-a-uuid", nil, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCourseLifecycleEndpoints(t *testing.T) {
	a := newAPI(t)
	instructor := testutil.CreateUser(t, a.db, models.RoleInstructor)
	auth := bearer(t, instructor)
	admin := bearer(t, a.admin)

	resp, _ := a.do(t, http.MethodPost, "/api/v1/courses", fiber.Map{"title": "x", "price": "10", "currency": "USD"}, bearer(t, a.student))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := a.do(t, http.MethodPost, "/api/v1/courses", fiber.Map{"title": "Distributed Systems", "price": "99.00", "currency": "EUR"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	courseID := decode(t, data)["id"].(string)

	resp, _ = a.do(t, http.MethodPost, "/api/v1/admin/courses/"+courseID+"/approve", nil, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPost, "/api/v1/courses/"+courseID+"/submit", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = a.do(t, http.MethodPost, "/api/v1/admin/courses/"+courseID+"/approve", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Published", decode(t, data)["status"])

	resp, data = a.do(t, http.MethodGet, "/api/v1/courses", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var courses []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &courses))
	assert.Len(t, courses, 2)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/courses/"+courseID, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminPaymentsAndReport(t *testing.T) {
	a := newAPI(t)
	admin := bearer(t, a.admin)
	txID := a.initiate(t)
	a.initiate(t)

	a.gateway.statuses["pi_1"] = models.PaymentSucceeded
	resp, _ := a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{"transactionId": txID}, bearer(t, a.student))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/admin/payments", nil, bearer(t, a.student))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, data := a.do(t, http.MethodGet, "/api/v1/admin/payments?status=Pending&limit=5", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	page := decode(t, data)
	assert.Len(t, page["data"], 1)
	assert.Equal(t, float64(1), page["meta"].(map[string]interface{})["total"])

	resp, _ = a.do(t, http.MethodGet, "/api/v1/admin/payments?status=Bogus", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	from := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	resp, data = a.do(t, http.MethodGet, "/api/v1/admin/reports/transactions?start_date="+from+"&end_date="+to, nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "transactions_"+from)
	assert.Contains(t, string(data), "Transaction ID,Date,Student Name,Course,Amount,Currency,Provider,Reference ID")
	assert.Contains(t, string(data), txID)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/admin/reports/transactions?start_date=yesterday", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceiptSignatureUnavailableWithoutCloudinary(t *testing.T) {
	a := newAPI(t)
	resp, _ := a.do(t, http.MethodGet, "/api/v1/uploads/receipt-signature", nil, bearer(t, a.student))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSocketRequiresUpgrade(t *testing.T) {
	a := newAPI(t)
	resp, _ := a.do(t, http.MethodGet, "/ws/payments/abc", nil, "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestPaymentResourcesAreOwnerOnly(t *testing.T) {
	a := newAPI(t)
	owner := bearer(t, a.student)
	stranger := bearer(t, testutil.CreateUser(t, a.db, models.RoleStudent))
	admin := bearer(t, a.admin)

	txID := a.initiate(t)
	a.gateway.statuses["pi_1"] = models.PaymentSucceeded
	resp, _ := a.do(t, http.MethodPost, "/api/v1/payments/confirm", fiber.Map{"transactionId": txID}, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p models.Payment
	require.NoError(t, a.db.First(&p, "transaction_id = ?", txID).Error)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/payments/status/"+txID, nil, stranger)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = a.do(t, http.MethodGet, "/api/v1/payments/status/"+txID, nil, admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(t, http.MethodPost, "/api/v1/invoices/generate/"+p.ID.String(), nil, stranger)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var invoices int64
	require.NoError(t, a.db.Model(&models.Invoice{}).Count(&invoices).Error)
	assert.Zero(t, invoices)

	resp, data := a.do(t, http.MethodPost, "/api/v1/invoices/generate/"+p.ID.String(), nil, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	invoiceID := decode(t, data)["id"].(string)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/invoices/"+invoiceID, nil, stranger)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = a.do(t, http.MethodGet, "/api/v1/invoices/"+invoiceID, nil, admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = a.do(t, http.MethodPost, "/api/v1/banktransfer/initiate", fiber.Map{
		"courseId":      a.course.ID.String(),
		"amount":        "49.99",
		"currency":      "USD",
		"bankName":      "Equity Bank",
		"accountNumber": "0123456789",
		"accountHolder": "Jane Wanjiru",
	}, owner)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	transferTx := decode(t, data)["transactionId"].(string)
	reference := decode(t, data)["referenceNumber"].(string)

	resp, data = a.do(t, http.MethodGet, "/api/v1/banktransfer/status/"+transferTx, nil, stranger)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotContains(t, string(data), "0123456789")

	resp, _ = a.do(t, http.MethodPost, "/api/v1/banktransfer/confirm", fiber.Map{
		"transactionId": transferTx, "referenceNumber": "HIJACK",
	}, stranger)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var transferPayment models.Payment
	require.NoError(t, a.db.First(&transferPayment, "transaction_id = ?", transferTx).Error)
	var transfer models.BankTransferPayment
	require.NoError(t, a.db.First(&transfer, "payment_id = ?", transferPayment.ID).Error)
	assert.Equal(t, reference, transfer.ReferenceNumber)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/banktransfer/status/"+transferTx, nil, owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInstructorCourseEndpoints(t *testing.T) {
	a := newAPI(t)
	instructor := testutil.CreateUser(t, a.db, models.RoleInstructor)
	auth := bearer(t, instructor)
	rival := bearer(t, testutil.CreateUser(t, a.db, models.RoleInstructor))

	resp, data := a.do(t, http.MethodPost, "/api/v1/courses", fiber.Map{"title": "Rust for Gophers", "price": "30", "currency": "USD"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	courseID := decode(t, data)["id"].(string)

	resp, data = a.do(t, http.MethodGet, "/api/v1/courses/instructor", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, courseID, mine[0]["id"])

	resp, _ = a.do(t, http.MethodGet, "/api/v1/courses/instructor", nil, bearer(t, a.student))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	update := fiber.Map{"title": "Rust for Go Developers", "price": "35", "currency": "USD"}
	resp, _ = a.do(t, http.MethodPut, "/api/v1/courses/"+courseID, update, rival)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = a.do(t, http.MethodPut, "/api/v1/courses/"+courseID, update, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "Rust for Go Developers", decode(t, data)["title"])

	resp, _ = a.do(t, http.MethodDelete, "/api/v1/courses/"+a.course.ID.String(), nil, auth)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(t, http.MethodDelete, "/api/v1/courses/"+courseID, nil, auth)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/api/v1/courses/"+courseID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

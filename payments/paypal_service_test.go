package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayPal struct {
	tokenCalls   atomic.Int32
	captureCalls atomic.Int32
	orderStatus  string
}

func (f *fakePayPal) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/oauth2/token" {
			f.tokenCalls.Add(1)
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "client", user)
			assert.Equal(t, "secret", pass)
			_, _ = w.Write([]byte(`{"access_token":"tok-1","expires_in":32400}`))
			return
		}

		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/checkout/orders":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "CAPTURE", body["intent"])
			units := body["purchase_units"].([]interface{})
			unit := units[0].(map[string]interface{})
			assert.Equal(t, "tx-7", unit["reference_id"])
			amount := unit["amount"].(map[string]interface{})
			assert.Equal(t, "49.99", amount["value"])
			assert.Equal(t, "USD", amount["currency_code"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"CREATED"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v2/checkout/orders/ORDER-1":
			_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"` + f.orderStatus + `"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v2/checkout/orders/ORDER-1/capture":
			f.captureCalls.Add(1)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"ORDER-1","status":"COMPLETED"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"name":"RESOURCE_NOT_FOUND"}`))
		}
	}
}

func TestPayPalCreateIntentCachesToken(t *testing.T) {
	fake := &fakePayPal{orderStatus: "CREATED"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	g := NewPayPalGateway(srv.URL+"/", "client", "secret", srv.Client())

	intent, err := g.CreateIntent(context.Background(), IntentRequest{
		TransactionID: "tx-7",
		Amount:        decimal.RequireFromString("49.99"),
		Currency:      "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", intent.ID)
	assert.Equal(t, "ORDER-1", intent.ClientSecret)
	assert.Equal(t, models.PaymentPending, intent.Status)

	status, err := g.FetchStatus(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, status)

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
	assert.Equal(t, int32(0), fake.captureCalls.Load())
}

func TestPayPalFetchStatusCapturesApprovedOrder(t *testing.T) {
	fake := &fakePayPal{orderStatus: "APPROVED"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	g := NewPayPalGateway(srv.URL, "client", "secret", srv.Client())

	status, err := g.FetchStatus(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, status)
	assert.Equal(t, int32(1), fake.captureCalls.Load())
}

func TestPayPalUnknownOrder(t *testing.T) {
	fake := &fakePayPal{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	g := NewPayPalGateway(srv.URL, "client", "secret", srv.Client())

	_, err := g.FetchStatus(context.Background(), "ORDER-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE_NOT_FOUND")
}

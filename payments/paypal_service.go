package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anjiri1684/eduplatform/models"
)

type PayPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type PayPalGateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokens       *tokenCache
}

func NewPayPalGateway(baseURL, clientID, clientSecret string, httpClient *http.Client) *PayPalGateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PayPalGateway{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		tokens:       newTokenCache(),
	}
}

func (g *PayPalGateway) Provider() string { return models.ProviderPayPal }

func (g *PayPalGateway) fetchAccessToken(ctx context.Context) (string, int, error) {
	reqBody := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", reqBody)
	if err != nil {
		return "", 0, err
	}

	req.SetBasicAuth(g.clientID, g.clientSecret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("failed to get access token, status: %s", resp.Status)
	}

	var tokenResp accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", 0, err
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}

func (g *PayPalGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	unit := map[string]interface{}{
		"reference_id": req.TransactionID,
		"amount": map[string]string{
			"currency_code": strings.ToUpper(req.Currency),
			"value":         req.Amount.StringFixed(2),
		},
	}
	if req.Description != "" {
		unit["description"] = req.Description
	}
	payload := map[string]interface{}{
		"intent":         "CAPTURE",
		"purchase_units": []map[string]interface{}{unit},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	order, err := g.do(ctx, http.MethodPost, "/v2/checkout/orders", body, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order id is all the PayPal JS SDK needs to open the approval flow.
	return &Intent{ID: order.ID, ClientSecret: order.ID, Status: MapPayPalStatus(order.Status)}, nil
}

// FetchStatus reads the order and captures it once the buyer has approved it,
// so an approved order settles the first time anyone asks for its status.
func (g *PayPalGateway) FetchStatus(ctx context.Context, orderID string) (models.PaymentStatus, error) {
	order, err := g.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil, "")
	if err != nil {
		return "", fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status == "APPROVED" {
		order, err = g.CaptureOrder(ctx, orderID)
		if err != nil {
			return "", err
		}
	}

	return MapPayPalStatus(order.Status), nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*PayPalOrder, error) {
	order, err := g.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil, "capture-"+orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture order: %w", err)
	}
	return order, nil
}

func (g *PayPalGateway) do(ctx context.Context, method, path string, body []byte, requestID string) (*PayPalOrder, error) {
	accessToken, err := g.tokens.get(ctx, g.fetchAccessToken)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		g.tokens.invalidate()
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal returned %s: %s", resp.Status, string(respBody))
	}

	var order PayPalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func MapPayPalStatus(status string) models.PaymentStatus {
	switch status {
	case "COMPLETED":
		return models.PaymentSucceeded
	case "APPROVED":
		return models.PaymentProcessing
	case "CREATED", "SAVED", "PAYER_ACTION_REQUIRED":
		return models.PaymentPending
	case "VOIDED":
		return models.PaymentCancelled
	default:
		return models.PaymentFailed
	}
}

package payments

import (
	"context"
	"sort"
	"strings"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/shopspring/decimal"
)

type IntentRequest struct {
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Description   string
}

// Intent is the gateway-side handle for a payment. ClientSecret is what the
// browser needs to finish the payment with the provider directly.
type Intent struct {
	ID           string
	ClientSecret string
	Status       models.PaymentStatus
}

type Gateway interface {
	Provider() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	FetchStatus(ctx context.Context, intentID string) (models.PaymentStatus, error)
}

// WebhookEvent is a verified provider notification reduced to what the
// payment workflow acts on. Status is empty for event types that are ignored.
type WebhookEvent struct {
	Provider string
	ID       string
	Type     string
	IntentID string
	Status   models.PaymentStatus
	Message  string
	Payload  []byte
}

type WebhookVerifier interface {
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[strings.ToLower(g.Provider())] = g
	}
	return r
}

func (r *Registry) Lookup(provider string) (Gateway, bool) {
	if r == nil {
		return nil, false
	}
	g, ok := r.gateways[strings.ToLower(strings.TrimSpace(provider))]
	return g, ok
}

func (r *Registry) Providers() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.gateways))
	for _, g := range r.gateways {
		names = append(names, g.Provider())
	}
	sort.Strings(names)
	return names
}

var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true, "KMF": true,
	"KRW": true, "MGA": true, "PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// ToMinorUnits converts an amount to the integer unit gateways charge in (cents for USD).
func ToMinorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Shift(2).Round(0).IntPart()
}

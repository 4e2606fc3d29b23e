package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/eduplatform/models"
	"github.com/anjiri1684/eduplatform/payments"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookService struct {
	db       *gorm.DB
	verifier payments.WebhookVerifier
	payments *PaymentService
}

func NewWebhookService(db *gorm.DB, verifier payments.WebhookVerifier, payments *PaymentService) *WebhookService {
	return &WebhookService{db: db, verifier: verifier, payments: payments}
}

type WebhookResult struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Duplicate bool   `json:"duplicate"`
	Ignored   bool   `json:"ignored"`
}

// HandleWebhook verifies and applies one provider notification. Nothing is
// written unless the signature checks out, and an event id is applied at most once.
func (s *WebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.verifier.ParseWebhook(payload, signature)
	if err != nil {
		log.Printf("🔥 Rejected webhook: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	result := &WebhookResult{EventID: event.ID, EventType: event.Type}

	record := models.WebhookEvent{
		Provider:  event.Provider,
		EventID:   event.ID,
		EventType: event.Type,
		Payload:   rawJSON(payload),
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to log webhook event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("Webhook event %s already received, skipping", event.ID)
		result.Duplicate = true
		return result, nil
	}

	if event.Status == "" || event.IntentID == "" {
		log.Printf("Ignoring webhook event %s of type %s", event.ID, event.Type)
		result.Ignored = true
		return result, s.markProcessed(ctx, record.ID, nil)
	}

	_, applyErr := s.payments.ApplyProviderStatus(ctx, event.Provider, event.IntentID, event.Status, event.Message)
	if applyErr != nil && !isPermanent(applyErr) {
		// Forget the event so the provider's redelivery is processed again.
		if err := s.db.WithContext(context.WithoutCancel(ctx)).Delete(&models.WebhookEvent{}, "id = ?", record.ID).Error; err != nil {
			log.Printf("🔥 Failed to release webhook event %s: %v", event.ID, err)
		}
		return nil, applyErr
	}

	// Unknown intents and stale transitions are acknowledged so the provider
	// stops redelivering; they stay visible in the event log.
	if applyErr != nil {
		log.Printf("🔥 Webhook event %s (%s) could not be applied: %v", event.ID, event.Type, applyErr)
	} else {
		log.Printf("✅ Webhook event %s applied: intent %s is %s", event.ID, event.IntentID, event.Status)
	}
	if err := s.markProcessed(ctx, record.ID, applyErr); err != nil {
		return nil, err
	}
	return result, nil
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrAlreadyPurchased)
}

func (s *WebhookService) markProcessed(ctx context.Context, id interface{}, procErr error) error {
	updates := map[string]interface{}{"processed_at": time.Now().UTC()}
	if procErr != nil {
		updates["processing_error"] = procErr.Error()
	}
	return s.db.WithContext(ctx).Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func rawJSON(payload []byte) datatypes.JSON {
	if json.Valid(payload) {
		return datatypes.JSON(payload)
	}
	b, _ := json.Marshal(string(payload))
	return datatypes.JSON(b)
}

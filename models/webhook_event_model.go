package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEvent is the log of verified provider notifications, one row per provider event id.
type WebhookEvent struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Provider        string         `gorm:"size:20;not null;uniqueIndex:idx_webhook_events_provider_event,priority:1" json:"provider"`
	EventID         string         `gorm:"size:191;not null;uniqueIndex:idx_webhook_events_provider_event,priority:2" json:"eventId"`
	EventType       string         `gorm:"size:100;not null;index" json:"eventType"`
	Payload         datatypes.JSON `json:"payload"`
	ProcessedAt     *time.Time     `json:"processedAt"`
	ProcessingError *string        `gorm:"type:text" json:"processingError"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (w *WebhookEvent) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

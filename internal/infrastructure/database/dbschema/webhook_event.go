package dbschema

import (
	"time"

	"gorm.io/datatypes"

	"cg-server/internal/domain/billing"
	"cg-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(&WebhookEvent{})
}

// WebhookEvent represents the persisted dedup marker for billing webhooks.
type WebhookEvent struct {
	ID         uint           `gorm:"primaryKey"`
	EventID    string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Kind       string         `gorm:"type:varchar(128);not null"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt time.Time
}

// NewSchemaWebhookEvent converts a domain event into a schema instance.
func NewSchemaWebhookEvent(e *billing.WebhookEvent) *WebhookEvent {
	if e == nil {
		return nil
	}
	return &WebhookEvent{
		ID:         e.ID,
		EventID:    e.EventID,
		Kind:       e.Kind,
		Payload:    datatypes.JSON(e.Payload),
		ReceivedAt: e.ReceivedAt,
	}
}

// EtoD converts a schema event back to the domain representation.
func (e *WebhookEvent) EtoD() *billing.WebhookEvent {
	if e == nil {
		return nil
	}
	return &billing.WebhookEvent{
		ID:         e.ID,
		EventID:    e.EventID,
		Kind:       e.Kind,
		Payload:    []byte(e.Payload),
		ReceivedAt: e.ReceivedAt,
	}
}

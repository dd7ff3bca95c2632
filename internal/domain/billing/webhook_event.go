package billing

import (
	"context"
	"time"
)

// WebhookEvent is a deduplication marker for inbound billing events, keyed by
// the provider's unique event id. Rows are created on first sight and never
// updated.
type WebhookEvent struct {
	ID         uint
	EventID    string
	Kind       string
	Payload    []byte
	ReceivedAt time.Time
}

// WebhookRepository defines storage operations for webhook dedup markers.
type WebhookRepository interface {
	// Record inserts the marker and reports whether the event id was seen for
	// the first time. A duplicate id returns false with no error.
	Record(ctx context.Context, event *WebhookEvent) (bool, error)
}

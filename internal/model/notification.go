package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification statuses. Transitions are forward-only:
// pending -> delivered or pending -> failed.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Notification types supported by the pipeline.
const (
	TypeEmail = "email"
	TypePush  = "push"
)

// Notification represents a notification entity in the system.
type Notification struct {
	ID        uuid.UUID              `json:"id"`                // unique identifier for the notification
	RequestID string                 `json:"request_id"`        // client-supplied idempotency key
	UserID    string                 `json:"user_id"`           // recipient user identifier
	Type      string                 `json:"notification_type"` // delivery channel, "email" or "push"
	Template  string                 `json:"template_code"`     // template to render at delivery time
	Variables map[string]interface{} `json:"variables"`         // template substitution values
	Priority  int                    `json:"priority"`          // non-negative delivery priority
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Status    string                 `json:"status"`          // current state: "pending", "delivered" or "failed"
	Error     string                 `json:"error,omitempty"` // failure reason, set only on "failed"
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"` // bumped on every status transition
}

// IsTerminal reports whether the status is a final one.
func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusFailed
}

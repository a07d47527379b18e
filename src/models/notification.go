package models

import (
	"deskly/src/types"

	"github.com/google/uuid"
)

// Notification is the persisted record of a dispatched notification. Delivery
// itself goes through the mail backend; this row is the audit trail.
type Notification struct {
	ID      uuid.UUID              `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  uint                   `json:"user_id"`
	Kind    types.NotificationKind `json:"kind"`
	Payload *types.JSONB           `gorm:"type:jsonb" json:"payload,omitempty"`

	types.Timestamps
}

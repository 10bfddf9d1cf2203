package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IdentityEvent is a stored identity-provider webhook delivery.
type IdentityEvent struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventType  string         `json:"eventType" gorm:"not null;index"`
	Payload    datatypes.JSON `json:"payload"`
	ReceivedAt time.Time      `json:"receivedAt" gorm:"not null"`
}

package domain

import "time"

type SessionStatus string

const (
	SessionStatusWaiting   SessionStatus = "waiting"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Session is owned by an external system; this service only reads it to
// decide whether joining is still allowed.
type Session struct {
	ID        string        `json:"id" gorm:"primary_key"`
	Status    SessionStatus `json:"status" gorm:"not null;default:'waiting'"`
	ExpiresAt *time.Time    `json:"expiresAt"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Expired reports whether the session's expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

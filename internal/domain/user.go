package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is one temporary participant row. The temp password has to stay
// readable because the join flow signs in to the identity provider with
// stored credentials; it is never serialized out.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	ClerkID      string     `json:"clerkId" gorm:"column:clerk_id;uniqueIndex;not null"`
	TempPassword string     `json:"-" gorm:"not null"`
	SessionID    *string    `json:"sessionId" gorm:"index"`
	LastActive   *time.Time `json:"lastActive"`
	IsActive     bool       `json:"isActive" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// LoginIdentifier is the identity-provider login for this user.
func (u *User) LoginIdentifier(emailDomain string) string {
	return u.Username + "@" + emailDomain
}

// UserUpdates holds the subset of columns the update helper may change.
// Nil fields are left untouched.
type UserUpdates struct {
	Username   *string
	SessionID  *string
	LastActive *time.Time
	IsActive   *bool
}

// Package identity wraps the external identity provider. The rest of the
// system treats the provider as an opaque capability: register an
// account, sign in with credentials, delete an account, verify a session
// token.
package identity

import (
	"context"
	"errors"
	"time"
)

type SignInStatus string

const (
	SignInStatusComplete   SignInStatus = "complete"
	SignInStatusNeedsInput SignInStatus = "needs_input"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrInvalidToken       = errors.New("identity: invalid session token")
)

// SignInResult mirrors the provider's sign-in attempt. A sign-in only
// counts as usable when Status is complete and a session was created.
type SignInResult struct {
	Status           SignInStatus
	CreatedSessionID string
	SessionToken     string
}

func (r *SignInResult) Complete() bool {
	return r != nil && r.Status == SignInStatusComplete && r.CreatedSessionID != ""
}

// Claims is the verified content of a provider session token.
type Claims struct {
	AccountID string
	SessionID string
	ExpiresAt time.Time
}

type Provider interface {
	// CreateAccount registers a login and returns the provider-assigned
	// account id.
	CreateAccount(ctx context.Context, identifier, password string) (string, error)
	SignIn(ctx context.Context, identifier, password string) (*SignInResult, error)
	DeleteAccount(ctx context.Context, accountID string) error
	// VerifyToken checks a session token locally and returns its claims.
	VerifyToken(token string) (*Claims, error)
}

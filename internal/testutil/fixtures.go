package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/identity"
	"gorm.io/gorm"
)

const (
	TestSigningSecret = "test-signing-secret-for-testing-only"
	TestWebhookSecret = "test-webhook-secret"
)

// UserBuilder creates temporary-user rows with a builder pattern
type UserBuilder struct {
	username     string
	clerkID      string
	tempPassword string
	sessionID    *string
	isActive     bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username:     fmt.Sprintf("guest_%s", suffix),
		clerkID:      fmt.Sprintf("acct_%s", suffix),
		tempPassword: uuid.New().String(),
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithClerkID(clerkID string) *UserBuilder {
	b.clerkID = clerkID
	return b
}

func (b *UserBuilder) WithTempPassword(password string) *UserBuilder {
	b.tempPassword = password
	return b
}

func (b *UserBuilder) WithSessionID(sessionID string) *UserBuilder {
	b.sessionID = &sessionID
	return b
}

func (b *UserBuilder) Active() *UserBuilder {
	b.isActive = true
	return b
}

// Build creates the user row in the database
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		ClerkID:      b.clerkID,
		TempPassword: b.tempPassword,
		SessionID:    b.sessionID,
		IsActive:     b.isActive,
		CreatedAt:    time.Now(),
	}
	if b.isActive {
		now := time.Now()
		user.LastActive = &now
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// SessionBuilder seeds externally-owned session rows for tests
type SessionBuilder struct {
	id        string
	status    domain.SessionStatus
	expiresAt *time.Time
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		id:     uuid.New().String()[:8],
		status: domain.SessionStatusActive,
	}
}

func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.id = id
	return b
}

func (b *SessionBuilder) WithStatus(status domain.SessionStatus) *SessionBuilder {
	b.status = status
	return b
}

func (b *SessionBuilder) ExpiredAt(t time.Time) *SessionBuilder {
	b.expiresAt = &t
	return b
}

func (b *SessionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Session {
	t.Helper()

	session := &domain.Session{
		ID:        b.id,
		Status:    b.status,
		ExpiresAt: b.expiresAt,
		CreatedAt: time.Now(),
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

type fakeAccount struct {
	ID       string
	Password string
}

// FakeIdentityProvider is an in-memory identity.Provider with call
// counters, used to assert how often the join flow touches the provider.
type FakeIdentityProvider struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount // identifier -> account

	CreateCalls  int
	SignInCalls  int
	DeleteCalls  int
	FailSignIn   bool // reject every sign-in attempt
	FailRegister bool // reject account creation
}

func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{accounts: make(map[string]fakeAccount)}
}

var _ identity.Provider = (*FakeIdentityProvider)(nil)

// Register seeds an account without counting it as a CreateAccount call.
func (f *FakeIdentityProvider) Register(identifier, password, accountID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[identifier] = fakeAccount{ID: accountID, Password: password}
}

// RemoveAccount simulates provider-side account loss (the stale-account
// scenario the self-heal path exists for).
func (f *FakeIdentityProvider) RemoveAccount(identifier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, identifier)
}

func (f *FakeIdentityProvider) CreateAccount(ctx context.Context, identifier, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCalls++
	if f.FailRegister {
		return "", fmt.Errorf("fake provider: registration rejected")
	}

	accountID := "acct_" + uuid.New().String()[:8]
	f.accounts[identifier] = fakeAccount{ID: accountID, Password: password}
	return accountID, nil
}

func (f *FakeIdentityProvider) SignIn(ctx context.Context, identifier, password string) (*identity.SignInResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.SignInCalls++
	if f.FailSignIn {
		return nil, identity.ErrInvalidCredentials
	}

	account, ok := f.accounts[identifier]
	if !ok || account.Password != password {
		return nil, identity.ErrInvalidCredentials
	}

	sessionID := "sess_" + uuid.New().String()[:8]
	token, err := signToken(account.ID, sessionID)
	if err != nil {
		return nil, err
	}

	return &identity.SignInResult{
		Status:           identity.SignInStatusComplete,
		CreatedSessionID: sessionID,
		SessionToken:     token,
	}, nil
}

func (f *FakeIdentityProvider) DeleteAccount(ctx context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCalls++
	for identifier, account := range f.accounts {
		if account.ID == accountID {
			delete(f.accounts, identifier)
			return nil
		}
	}
	return nil
}

func (f *FakeIdentityProvider) VerifyToken(tokenString string) (*identity.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(TestSigningSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, identity.ErrInvalidToken
	}

	mapClaims := token.Claims.(jwt.MapClaims)
	accountID, _ := mapClaims["sub"].(string)
	sessionID, _ := mapClaims["sid"].(string)
	if accountID == "" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Claims{AccountID: accountID, SessionID: sessionID}, nil
}

// SignSessionToken issues a token the fake provider will accept, for
// tests that need an authenticated request without a full join flow.
func SignSessionToken(t *testing.T, accountID string) string {
	t.Helper()

	token, err := signToken(accountID, "sess_"+uuid.New().String()[:8])
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func signToken(accountID, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": accountID,
		"sid": sessionID,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(TestSigningSecret))
}

// RecordingInvalidator captures cache-invalidation signals.
type RecordingInvalidator struct {
	mu    sync.Mutex
	Paths []string
}

func (r *RecordingInvalidator) InvalidatePath(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Paths = append(r.Paths, path)
	return nil
}

func (r *RecordingInvalidator) Close() error { return nil }

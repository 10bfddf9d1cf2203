package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/identity"
	"github.com/mreid/group-session-website/internal/repository"
)

type ProvisionService struct {
	users       repository.UserRepository
	identity    identity.Provider
	emailDomain string
}

func NewProvisionService(users repository.UserRepository, provider identity.Provider, emailDomain string) *ProvisionService {
	return &ProvisionService{users: users, identity: provider, emailDomain: emailDomain}
}

// ProvisionResult carries the generated credentials alongside the stored
// row. The plaintext password is only available here; callers must use it
// for the immediate sign-in.
type ProvisionResult struct {
	Username string
	Password string
	User     *domain.User
}

// CreateTemporaryUser registers a fresh account with the identity
// provider and persists the matching row. Either external failure aborts
// the whole operation; a half-created provider account is not rolled
// back (see DESIGN.md).
func (s *ProvisionService) CreateTemporaryUser(ctx context.Context, sessionID string) (*ProvisionResult, error) {
	username := fmt.Sprintf("guest_%s_%d", uuid.New().String()[:8], time.Now().Unix())
	password := uuid.New().String()

	accountID, err := s.identity.CreateAccount(ctx, username+"@"+s.emailDomain, password)
	if err != nil {
		return nil, fmt.Errorf("register temporary account: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		ClerkID:      accountID,
		TempPassword: password,
		SessionID:    &sessionID,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("persist temporary user: %w", err)
	}

	return &ProvisionResult{Username: username, Password: password, User: user}, nil
}

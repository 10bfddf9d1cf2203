package repository

import (
	"context"

	"github.com/mreid/group-session-website/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error)
	Update(ctx context.Context, username string, updates domain.UserUpdates) (*domain.User, error)
	Delete(ctx context.Context, clerkID string) (*domain.User, error)
	ListBySession(ctx context.Context, sessionID string) ([]*domain.User, error)
	SetActivity(ctx context.Context, clerkID string, isActive bool) (*domain.User, error)
	ListActive(ctx context.Context) ([]*domain.User, error)
}

// SessionRepository is read-only: sessions are owned by an external
// system and this service never writes them.
type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
}

type IdentityEventRepository interface {
	Create(ctx context.Context, event *domain.IdentityEvent) error
	ListRecent(ctx context.Context, limit int) ([]*domain.IdentityEvent, error)
}

type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	IdentityEvent IdentityEventRepository
}

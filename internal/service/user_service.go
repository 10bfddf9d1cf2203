package service

import (
	"context"
	"errors"
	"log"

	"github.com/mreid/group-session-website/internal/cache"
	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/repository"
)

type UserService struct {
	users       repository.UserRepository
	invalidator cache.Invalidator
}

func NewUserService(users repository.UserRepository, invalidator cache.Invalidator) *UserService {
	return &UserService{users: users, invalidator: invalidator}
}

// Discard removes the user row for a provider account id and fires the
// root-path invalidation signal. A missing row is a logged no-op, not a
// failure: the caller's intent (the account is gone) already holds.
func (s *UserService) Discard(ctx context.Context, clerkID string) (*domain.User, error) {
	user, err := s.users.Delete(ctx, clerkID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Printf("[user] discard: no row for clerk id %s", clerkID)
			return nil, nil
		}
		return nil, err
	}

	if err := s.invalidator.InvalidatePath(ctx, "/"); err != nil {
		log.Printf("ERROR [user] invalidate root path: %v", err)
	}
	return user, nil
}

// Participants lists the users bound to a session. An empty session is an
// empty slice here; only the join flow cares about the distinction and it
// reads the repository directly.
func (s *UserService) Participants(ctx context.Context, sessionID string) ([]*domain.User, error) {
	users, err := s.users.ListBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNoParticipants) {
			return []*domain.User{}, nil
		}
		return nil, err
	}
	return users, nil
}

func (s *UserService) ActiveUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListActive(ctx)
}

// MarkActivity flips the active flag; becoming active stamps last_active,
// going inactive clears it.
func (s *UserService) MarkActivity(ctx context.Context, clerkID string, isActive bool) (*domain.User, error) {
	return s.users.SetActivity(ctx, clerkID, isActive)
}

func (s *UserService) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	return s.users.GetByClerkID(ctx, clerkID)
}

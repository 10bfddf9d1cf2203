package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mreid/group-session-website/internal/domain"
	"github.com/mreid/group-session-website/internal/identity"
	"github.com/mreid/group-session-website/internal/repository"
)

var (
	ErrAuthUnavailable  = errors.New("authentication service not available")
	ErrSessionExpired   = errors.New("session not found or has expired")
	ErrSessionEnded     = errors.New("session has ended")
	ErrSignInIncomplete = errors.New("failed to complete sign in process")
)

// JoinService runs the one-shot join sequence: validate the session, find
// or provision a temporary user, sign in, hand back the redirect target.
// Each activation runs the sequence exactly once; retry means a caller
// re-runs the whole thing from scratch.
type JoinService struct {
	sessions    repository.SessionRepository
	users       repository.UserRepository
	userService *UserService
	provisioner *ProvisionService
	identity    identity.Provider
	emailDomain string
}

func NewJoinService(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	userService *UserService,
	provisioner *ProvisionService,
	provider identity.Provider,
	emailDomain string,
) *JoinService {
	return &JoinService{
		sessions:    sessions,
		users:       users,
		userService: userService,
		provisioner: provisioner,
		identity:    provider,
		emailDomain: emailDomain,
	}
}

type JoinResult struct {
	User             *domain.User
	SessionToken     string
	CreatedSessionID string
	RedirectURL      string
}

func (s *JoinService) Join(ctx context.Context, sessionID string) (*JoinResult, error) {
	if s.identity == nil {
		return nil, ErrAuthUnavailable
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if session.Status == domain.SessionStatusCompleted {
		return nil, ErrSessionEnded
	}
	if session.Expired(time.Now()) {
		return nil, ErrSessionExpired
	}

	existing, err := s.existingUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var attempt *identity.SignInResult
	var userData *domain.User

	if existing != nil {
		attempt, err = s.identity.SignIn(ctx, existing.LoginIdentifier(s.emailDomain), existing.TempPassword)
		if err == nil {
			userData = existing
		} else {
			// Stored credentials no longer work at the provider; discard
			// the stale account and provision a replacement. One attempt
			// only, a second sign-in failure propagates.
			log.Printf("[join] sign in failed for existing user %s, replacing: %v", existing.Username, err)
			s.discardStale(ctx, existing)

			attempt, userData, err = s.provisionAndSignIn(ctx, sessionID)
			if err != nil {
				return nil, err
			}
		}
	} else {
		attempt, userData, err = s.provisionAndSignIn(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}

	if !attempt.Complete() {
		return nil, ErrSignInIncomplete
	}

	return &JoinResult{
		User:             userData,
		SessionToken:     attempt.SessionToken,
		CreatedSessionID: attempt.CreatedSessionID,
		RedirectURL:      "/join/" + sessionID + "/group",
	}, nil
}

func (s *JoinService) existingUser(ctx context.Context, sessionID string) (*domain.User, error) {
	users, err := s.users.ListBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNoParticipants) {
			return nil, nil
		}
		return nil, err
	}
	return users[0], nil
}

// discardStale is best-effort: the replacement path must proceed even if
// neither delete lands.
func (s *JoinService) discardStale(ctx context.Context, user *domain.User) {
	if user.ClerkID == "" {
		return
	}
	if err := s.identity.DeleteAccount(ctx, user.ClerkID); err != nil {
		log.Printf("ERROR [join] delete provider account %s: %v", user.ClerkID, err)
	}
	if _, err := s.userService.Discard(ctx, user.ClerkID); err != nil {
		log.Printf("ERROR [join] discard stale user %s: %v", user.ClerkID, err)
	}
}

func (s *JoinService) provisionAndSignIn(ctx context.Context, sessionID string) (*identity.SignInResult, *domain.User, error) {
	res, err := s.provisioner.CreateTemporaryUser(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	attempt, err := s.identity.SignIn(ctx, res.Username+"@"+s.emailDomain, res.Password)
	if err != nil {
		return nil, nil, err
	}
	return attempt, res.User, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/mreid/group-session-website/internal/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Create inserts the row and, unlike the read helpers, propagates store
// failures to the caller (a uniqueness violation must surface, never
// produce a silent duplicate).
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return &domain.StoreError{Op: "create user", Err: err}
	}
	return nil
}

func (r *userRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "clerk_id = ?", clerkID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.StoreError{Op: "get user by clerk id", Err: err}
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, username string, updates domain.UserUpdates) (*domain.User, error) {
	fields := map[string]any{}
	if updates.Username != nil {
		fields["username"] = *updates.Username
	}
	if updates.SessionID != nil {
		fields["session_id"] = *updates.SessionID
	}
	if updates.LastActive != nil {
		fields["last_active"] = *updates.LastActive
	}
	if updates.IsActive != nil {
		fields["is_active"] = *updates.IsActive
	}

	if len(fields) > 0 {
		res := r.db.WithContext(ctx).
			Model(&domain.User{}).
			Where("username = ?", username).
			Updates(fields)
		if res.Error != nil {
			return nil, &domain.StoreError{Op: "update user", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrUserNotFound
		}
		if updates.Username != nil {
			username = *updates.Username
		}
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.StoreError{Op: "reload updated user", Err: err}
	}
	return &user, nil
}

// Delete removes the row matching the provider id and returns its
// snapshot so callers can report what was discarded.
func (r *userRepository) Delete(ctx context.Context, clerkID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "clerk_id = ?", clerkID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.StoreError{Op: "load user for delete", Err: err}
	}

	if err := r.db.WithContext(ctx).Delete(&domain.User{}, "clerk_id = ?", clerkID).Error; err != nil {
		return nil, &domain.StoreError{Op: "delete user", Err: err}
	}
	return &user, nil
}

// ListBySession distinguishes "no participants yet" (ErrNoParticipants,
// recoverable) from a failed query so the join flow can decide between
// provisioning a fresh user and surfacing an error.
func (r *userRepository) ListBySession(ctx context.Context, sessionID string) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "list users by session", Err: err}
	}
	if len(users) == 0 {
		return nil, domain.ErrNoParticipants
	}
	return users, nil
}

func (r *userRepository) SetActivity(ctx context.Context, clerkID string, isActive bool) (*domain.User, error) {
	fields := map[string]any{"is_active": isActive}
	if isActive {
		fields["last_active"] = time.Now()
	} else {
		fields["last_active"] = nil
	}

	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("clerk_id = ?", clerkID).
		Updates(fields)
	if res.Error != nil {
		return nil, &domain.StoreError{Op: "set user activity", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.GetByClerkID(ctx, clerkID)
}

func (r *userRepository) ListActive(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("last_active DESC").
		Find(&users).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "list active users", Err: err}
	}
	return users, nil
}

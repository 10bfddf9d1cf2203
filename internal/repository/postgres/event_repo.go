package postgres

import (
	"context"

	"github.com/mreid/group-session-website/internal/domain"
	"gorm.io/gorm"
)

type identityEventRepository struct {
	db *gorm.DB
}

func NewIdentityEventRepository(db *gorm.DB) *identityEventRepository {
	return &identityEventRepository{db: db}
}

func (r *identityEventRepository) Create(ctx context.Context, event *domain.IdentityEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return &domain.StoreError{Op: "create identity event", Err: err}
	}
	return nil
}

func (r *identityEventRepository) ListRecent(ctx context.Context, limit int) ([]*domain.IdentityEvent, error) {
	var events []*domain.IdentityEvent
	err := r.db.WithContext(ctx).
		Order("received_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "list identity events", Err: err}
	}
	return events, nil
}

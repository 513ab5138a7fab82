package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// Уведомления получателя, новые сверху.
	ListByReceiver(ctx context.Context, receiverUserID uuid.UUID, limit int) ([]model.Notification, error)
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *GormNotificationRepository) ListByReceiver(ctx context.Context, receiverUserID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var items []model.Notification
	err := r.db.WithContext(ctx).
		Where("receiver_user_id = ?", receiverUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

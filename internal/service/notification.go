package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
)

// Notifier — внешний приёмник уведомлений. Вызовы best-effort: ошибка
// доставки логируется вызывающей стороной и никогда не откатывает
// операцию над бронированием.
type Notifier interface {
	Notify(ctx context.Context, receiverUserID uuid.UUID, title, message string) error
}

// InAppNotifier пишет in-app уведомления в хранилище.
type InAppNotifier struct {
	repo repository.NotificationRepository
}

func NewInAppNotifier(repo repository.NotificationRepository) *InAppNotifier {
	return &InAppNotifier{repo: repo}
}

func (n *InAppNotifier) Notify(ctx context.Context, receiverUserID uuid.UUID, title, message string) error {
	now := time.Now().UTC()
	return n.repo.Create(ctx, &model.Notification{
		ID:             uuid.New(),
		ReceiverUserID: receiverUserID,
		Type:           model.NotificationTypeInApp,
		Title:          title,
		Message:        message,
		IsSent:         true,
		SentAt:         &now,
	})
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeInApp NotificationType = "in_app"
	NotificationTypeEmail NotificationType = "email"
)

// notifications — in-app уведомления. Создаются best-effort: сбой записи
// не откатывает породившую его операцию над бронированием.
type Notification struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ReceiverUserID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type           NotificationType `gorm:"type:varchar(32);not null"`

	Title   string `gorm:"type:varchar(255);not null"`
	Message string `gorm:"type:text"`

	IsSent bool       `gorm:"not null;default:false"`
	SentAt *time.Time `gorm:"type:timestamp with time zone"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

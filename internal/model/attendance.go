package model

import (
	"time"

	"github.com/google/uuid"
)

// attendances — фактическая явка ситтера по бронированию: одна запись
// на бронирование (uniqueIndex по booking_id). CheckOutAt остаётся nil,
// пока визит не закрыт.
type Attendance struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	CheckInAt  time.Time  `gorm:"not null"`
	CheckOutAt *time.Time `gorm:"type:timestamp with time zone"`

	Location string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// reviews — отзыв родителя о завершённом бронировании.
// Не более одного отзыва на бронирование (uniqueIndex по booking_id).
// В агрегат рейтинга попадают только IsApproved && !IsHidden.
type Review struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	BookingID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ParentUserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SitterProfileID uuid.UUID `gorm:"type:uuid;not null;index"`

	// 1..5
	Rating  int    `gorm:"not null"`
	Comment string `gorm:"type:text"`

	IsApproved bool `gorm:"not null;default:false;index"`
	IsHidden   bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Booking       *Booking       `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	SitterProfile *SitterProfile `gorm:"foreignKey:SitterProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookings
//
// Время начала/конца хранится в минутах от полуночи (0..1440) — сравнения
// интервалов сводятся к целочисленным, без возни с часовыми поясами.
// Инвариант: StartMin < EndMin.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	ParentUserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SitterProfileID uuid.UUID `gorm:"type:uuid;not null;index"`

	Date     datatypes.Date `gorm:"type:date;not null;index"`
	StartMin int            `gorm:"not null"`
	EndMin   int            `gorm:"not null"`

	ServiceAddress string `gorm:"type:varchar(500)"`
	Notes          string `gorm:"type:text"`

	Status BookingStatus `gorm:"type:varchar(32);not null;index"`

	// Снимок rate×часы на момент создания; далее не пересчитывается.
	TotalAmount *float64 `gorm:"type:numeric(12,2)"`

	CreatedAt   time.Time  `gorm:"not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()"`
	CompletedAt *time.Time `gorm:"type:timestamp with time zone"`

	ParentUser    *User          `gorm:"foreignKey:ParentUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	SitterProfile *SitterProfile `gorm:"foreignKey:SitterProfileID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Payment *Payment `gorm:"foreignKey:BookingID"`
	Review  *Review  `gorm:"foreignKey:BookingID"`
}

// booking_status_histories — append-only журнал переходов.
// Записи никогда не изменяются и не удаляются.
type BookingStatusHistory struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`

	FromStatus BookingStatus `gorm:"type:varchar(32);not null"`
	ToStatus   BookingStatus `gorm:"type:varchar(32);not null"`

	ChangedByUserID uuid.UUID `gorm:"type:uuid;not null"`
	ChangedAt       time.Time `gorm:"not null;default:now();index"`

	Note string `gorm:"type:text"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// payments — ровно одна запись на бронирование (uniqueIndex по booking_id).
// Обновляется на месте, не пересоздаётся.
// Инвариант: при Status=paid Amount равен TotalAmount бронирования.
type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Amount float64 `gorm:"type:numeric(12,2);not null"`

	Method        string `gorm:"type:varchar(64)"`
	TransactionID string `gorm:"type:varchar(128)"`

	Status PaymentStatus `gorm:"type:varchar(32);not null;index"`

	CreatedAt time.Time  `gorm:"not null;default:now()"`
	PaidAt    *time.Time `gorm:"type:timestamp with time zone"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

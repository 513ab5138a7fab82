package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// availabilities — окна доступности ситтера.
//
// Ровно одно из двух: DayOfWeek (еженедельное окно) или Date (конкретная дата).
// XOR проверяется на уровне сервиса, хранилище допускает любые значения.
type Availability struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	SitterProfileID uuid.UUID `gorm:"type:uuid;not null;index"`

	// 0 = Sunday ... 6 = Saturday (как time.Weekday).
	DayOfWeek *int            `gorm:"type:smallint"`
	Date      *datatypes.Date `gorm:"type:date"`

	StartMin int `gorm:"not null"`
	EndMin   int `gorm:"not null"`

	IsAvailable bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	SitterProfile *SitterProfile `gorm:"foreignKey:SitterProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

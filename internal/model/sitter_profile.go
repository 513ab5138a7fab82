package model

import (
	"time"

	"github.com/google/uuid"
)

// SitterProfile — публичная карточка ситтера, отделённая от аккаунта-владельца.
// Бронируется именно профиль, а не пользователь.
type SitterProfile struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	// Внешний ключ на владельца профиля.
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	HourlyRate      float64 `gorm:"type:numeric(12,2);not null;default:0"`
	ExperienceYears int     `gorm:"not null;default:0"`
	LocationText    string  `gorm:"type:varchar(255)"`

	Latitude  *float64 `gorm:"type:double precision"`
	Longitude *float64 `gorm:"type:double precision"`

	// Профиль попадает в выдачу поиска только после одобрения администратором.
	IsApproved bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля для GORM (опционально, но удобно для Preload).
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Skills []Skill `gorm:"many2many:sitter_skills;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`

	Availabilities []Availability `gorm:"foreignKey:SitterProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Bookings       []Booking      `gorm:"foreignKey:SitterProfileID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// skills — словарь навыков, имя уникально без учёта регистра (храним как есть,
// сравниваем через LOWER).
type Skill struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:varchar(128);not null;uniqueIndex"`

	Profiles []SitterProfile `gorm:"many2many:sitter_skills"`
}

// sitter_skills — кастомная join-таблица многие-ко-многим.
type SitterSkill struct {
	SitterProfileID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SkillID         uuid.UUID `gorm:"type:uuid;primaryKey"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	Profile *SitterProfile `gorm:"foreignKey:SitterProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Skill   *Skill         `gorm:"foreignKey:SkillID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

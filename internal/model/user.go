package model

import (
	"time"

	"github.com/google/uuid"
)

// Роль вызывающего. Аутентификацию выполняет внешний identity-провайдер,
// ядро получает уже доверенную пару (userId, role) и делает только
// проверки владения и роли.
type UserRole string

const (
	UserRoleParent UserRole = "parent"
	UserRoleSitter UserRole = "sitter"
	UserRoleAdmin  UserRole = "admin"
)

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	FullName     string   `gorm:"type:varchar(255);not null"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex"`
	ContactPhone string   `gorm:"type:varchar(32)"`
	Role         UserRole `gorm:"type:varchar(32);not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля (опционально)
	SitterProfile *SitterProfile `gorm:"foreignKey:UserID"`
}

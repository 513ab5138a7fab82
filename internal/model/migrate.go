package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра маркетплейса.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&SitterProfile{},
		&Skill{},
		&SitterSkill{},
		&Availability{},
		&Booking{},
		&BookingStatusHistory{},
		&Payment{},
		&Attendance{},
		&Review{},
		&Notification{},
	)
}

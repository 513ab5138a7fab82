package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/model"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Attendance, error)
	// Сохранить изменённую запись явки (закрытие визита).
	Save(ctx context.Context, a *model.Attendance) error
}

type GormAttendanceRepository struct {
	db *gorm.DB
}

func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

func (r *GormAttendanceRepository) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *GormAttendanceRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Attendance, error) {
	var a model.Attendance
	if err := r.db.WithContext(ctx).First(&a, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAttendanceRepository) Save(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

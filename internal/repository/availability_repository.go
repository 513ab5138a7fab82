package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
)

type AvailabilityRepository interface {
	// Создать окно доступности.
	Create(ctx context.Context, a *model.Availability) error
	// Удалить окно в рамках владения профилем.
	Delete(ctx context.Context, id, sitterProfileID uuid.UUID) error
	// Все окна профиля: сначала date-специфичные по дате, затем еженедельные.
	ListByProfile(ctx context.Context, sitterProfileID uuid.UUID) ([]model.Availability, error)
	// Есть ли хотя бы одно окно, полностью включающее запрошенный интервал.
	CoversWindow(ctx context.Context, sitterProfileID uuid.UUID, date time.Time, iv booking.Interval) (bool, error)
}

type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) Create(ctx context.Context, a *model.Availability) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *GormAvailabilityRepository) Delete(ctx context.Context, id, sitterProfileID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Delete(&model.Availability{}, "id = ? AND sitter_profile_id = ?", id, sitterProfileID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormAvailabilityRepository) ListByProfile(ctx context.Context, sitterProfileID uuid.UUID) ([]model.Availability, error) {
	var items []model.Availability
	err := r.db.WithContext(ctx).
		Where("sitter_profile_id = ?", sitterProfileID).
		Order("date DESC").
		Order("day_of_week ASC").
		Order("start_min ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CoversWindow — экзистенциальная проверка: достаточно одной строки с
// is_available=true, подходящей к дате (конкретная дата либо день недели)
// и полностью включающей интервал (границы включительно).
func (r *GormAvailabilityRepository) CoversWindow(
	ctx context.Context,
	sitterProfileID uuid.UUID,
	date time.Time,
	iv booking.Interval,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Availability{}).
		Where("sitter_profile_id = ?", sitterProfileID).
		Where("is_available = ?", true).
		Where("(date IS NOT NULL AND date = ?) OR (date IS NULL AND day_of_week = ?)",
			booking.DateOf(date), int(date.UTC().Weekday())).
		Where("start_min <= ? AND end_min >= ?", int(iv.Start), int(iv.End)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	// Список отзывов родителя, новые сверху.
	ListByParent(ctx context.Context, parentUserID uuid.UUID) ([]model.Review, error)
	// Модерация: отзыв участвует в рейтинге только при approved && !hidden.
	SetModeration(ctx context.Context, id uuid.UUID, approved, hidden bool) error
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *GormReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormReviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormReviewRepository) ListByParent(ctx context.Context, parentUserID uuid.UUID) ([]model.Review, error) {
	var items []model.Review
	err := r.db.WithContext(ctx).
		Where("parent_user_id = ?", parentUserID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormReviewRepository) SetModeration(ctx context.Context, id uuid.UUID, approved, hidden bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_approved": approved,
			"is_hidden":   hidden,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
)

// SearchFilter — критерии ранжированного поиска ситтеров.
// Фильтр по доступности активен, только если заданы все три поля окна.
type SearchFilter struct {
	OnlyApproved bool

	// Подстрока локации, без учёта регистра.
	Location string

	MinRate            *float64
	MaxRate            *float64
	MinExperienceYears *int

	// AND-семантика: кандидат должен обладать каждым из навыков.
	Skills []string

	Date  *time.Time
	Start *booking.TimeOfDay
	End   *booking.TimeOfDay

	Page     int
	PageSize int
}

func (f SearchFilter) hasAvailabilityWindow() bool {
	return f.Date != nil && f.Start != nil && f.End != nil
}

// SitterCard — строка выдачи поиска: профиль + агрегат рейтинга.
type SitterCard struct {
	SitterProfileID uuid.UUID `gorm:"column:sitter_profile_id"`
	UserID          uuid.UUID `gorm:"column:user_id"`
	FullName        string    `gorm:"column:full_name"`
	Email           string    `gorm:"column:email"`
	ContactPhone    string    `gorm:"column:contact_phone"`
	HourlyRate      float64   `gorm:"column:hourly_rate"`
	ExperienceYears int       `gorm:"column:experience_years"`
	LocationText    string    `gorm:"column:location_text"`
	IsApproved      bool      `gorm:"column:is_approved"`
	AvgRating       float64   `gorm:"column:avg_rating"`
	ReviewCount     int       `gorm:"column:review_count"`
}

type SitterSearchRepository interface {
	// Search возвращает страницу карточек и общее количество по тому же
	// предикату (count и страница — два независимых запроса).
	Search(ctx context.Context, f SearchFilter) ([]SitterCard, int64, error)
	// GetByID — тот же конвейер, зафиксированный на одном профиле,
	// без требования одобрения.
	GetByID(ctx context.Context, id uuid.UUID) (*SitterCard, error)
}

type GormSitterSearchRepository struct {
	db *gorm.DB
}

func NewGormSitterSearchRepository(db *gorm.DB) *GormSitterSearchRepository {
	return &GormSitterSearchRepository{db: db}
}

// buildQuery собирает единый предикат выборки: профили + LEFT JOIN агрегата
// рейтинга (только approved и не hidden отзывы), скалярные фильтры, полное
// вхождение набора навыков, окно доступности. Предикат общий для count- и
// page-запросов — порядок и пагинация навешиваются отдельно.
func (r *GormSitterSearchRepository) buildQuery(ctx context.Context, f SearchFilter, pinID *uuid.UUID) *gorm.DB {
	ratingAgg := r.db.Model(&model.Review{}).
		Select("sitter_profile_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count").
		Where("is_approved = ? AND is_hidden = ?", true, false).
		Group("sitter_profile_id")

	q := r.db.WithContext(ctx).
		Model(&model.SitterProfile{}).
		Joins("JOIN users ON users.id = sitter_profiles.user_id").
		Joins("LEFT JOIN (?) AS rating_agg ON rating_agg.sitter_profile_id = sitter_profiles.id", ratingAgg)

	if pinID != nil {
		q = q.Where("sitter_profiles.id = ?", *pinID)
	}
	if f.OnlyApproved {
		q = q.Where("sitter_profiles.is_approved = ?", true)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("LOWER(sitter_profiles.location_text) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if f.MinRate != nil {
		q = q.Where("sitter_profiles.hourly_rate >= ?", *f.MinRate)
	}
	if f.MaxRate != nil {
		q = q.Where("sitter_profiles.hourly_rate <= ?", *f.MaxRate)
	}
	if f.MinExperienceYears != nil {
		q = q.Where("sitter_profiles.experience_years >= ?", *f.MinExperienceYears)
	}

	if skills := normalizeSkillNames(f.Skills); len(skills) > 0 {
		lower := make([]string, len(skills))
		for i, s := range skills {
			lower[i] = strings.ToLower(s)
		}
		// Полное вхождение: количество различных совпавших навыков
		// должно быть не меньше размера запрошенного набора.
		matched := r.db.Table("sitter_skills").
			Select("sitter_skills.sitter_profile_id").
			Joins("JOIN skills ON skills.id = sitter_skills.skill_id").
			Where("LOWER(skills.name) IN ?", lower).
			Group("sitter_skills.sitter_profile_id").
			Having("COUNT(DISTINCT sitter_skills.skill_id) >= ?", len(lower))
		q = q.Where("sitter_profiles.id IN (?)", matched)
	}

	if f.hasAvailabilityWindow() {
		q = q.Where(`EXISTS (
			SELECT 1 FROM availabilities
			WHERE availabilities.sitter_profile_id = sitter_profiles.id
			  AND availabilities.is_available = ?
			  AND ((availabilities.date IS NOT NULL AND availabilities.date = ?)
			    OR (availabilities.date IS NULL AND availabilities.day_of_week = ?))
			  AND availabilities.start_min <= ?
			  AND availabilities.end_min >= ?
		)`,
			true,
			booking.DateOf(*f.Date),
			int(f.Date.UTC().Weekday()),
			int(*f.Start),
			int(*f.End),
		)
	}

	return q
}

const cardSelect = `sitter_profiles.id AS sitter_profile_id,
sitter_profiles.user_id AS user_id,
users.full_name AS full_name,
COALESCE(users.email, '') AS email,
COALESCE(users.contact_phone, '') AS contact_phone,
sitter_profiles.hourly_rate AS hourly_rate,
sitter_profiles.experience_years AS experience_years,
sitter_profiles.location_text AS location_text,
sitter_profiles.is_approved AS is_approved,
COALESCE(rating_agg.avg_rating, 0) AS avg_rating,
COALESCE(rating_agg.review_count, 0) AS review_count`

func (r *GormSitterSearchRepository) Search(ctx context.Context, f SearchFilter) ([]SitterCard, int64, error) {
	var total int64
	if err := r.buildQuery(ctx, f, nil).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := booking.NormalizePaging(f.Page, f.PageSize, 100)

	var items []SitterCard
	err := r.buildQuery(ctx, f, nil).
		Select(cardSelect).
		// Порядок — контракт: от него зависит стабильность пагинации.
		Order("avg_rating DESC").
		Order("review_count DESC").
		Order("sitter_profiles.experience_years DESC").
		Order("sitter_profiles.hourly_rate ASC").
		Offset((page - 1) * size).
		Limit(size).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormSitterSearchRepository) GetByID(ctx context.Context, id uuid.UUID) (*SitterCard, error) {
	var card SitterCard
	res := r.buildQuery(ctx, SearchFilter{OnlyApproved: false}, &id).
		Select(cardSelect).
		Limit(1).
		Scan(&card)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &card, nil
}

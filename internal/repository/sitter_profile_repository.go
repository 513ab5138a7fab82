package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/model"
)

type SitterProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.SitterProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.SitterProfile, error)
	// Включить/выключить профиль в выдаче поиска.
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	// Полностью заменить набор навыков профиля. Отсутствующие в словаре
	// навыки создаются, имена дедуплицируются без учёта регистра.
	ReplaceSkills(ctx context.Context, profileID uuid.UUID, names []string) error
}

type GormSitterProfileRepository struct {
	db *gorm.DB
}

func NewGormSitterProfileRepository(db *gorm.DB) *GormSitterProfileRepository {
	return &GormSitterProfileRepository{db: db}
}

func (r *GormSitterProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SitterProfile, error) {
	var p model.SitterProfile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormSitterProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.SitterProfile, error) {
	var p model.SitterProfile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormSitterProfileRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.SitterProfile{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeSkillNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (r *GormSitterProfileRepository) ReplaceSkills(ctx context.Context, profileID uuid.UUID, names []string) error {
	names = normalizeSkillNames(names)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sitter_profile_id = ?", profileID).
			Delete(&model.SitterSkill{}).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}

		lower := make([]string, len(names))
		for i, n := range names {
			lower[i] = strings.ToLower(n)
		}

		var existing []model.Skill
		if err := tx.Where("LOWER(name) IN ?", lower).Find(&existing).Error; err != nil {
			return err
		}

		known := make(map[string]uuid.UUID, len(existing))
		for _, s := range existing {
			known[strings.ToLower(s.Name)] = s.ID
		}

		for _, n := range names {
			if _, ok := known[strings.ToLower(n)]; ok {
				continue
			}
			s := model.Skill{ID: uuid.New(), Name: n}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
			known[strings.ToLower(n)] = s.ID
		}

		for _, n := range names {
			link := model.SitterSkill{
				SitterProfileID: profileID,
				SkillID:         known[strings.ToLower(n)],
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

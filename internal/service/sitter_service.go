package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/repository"
)

// SitterService — поиск ситтеров и минимальное обслуживание профиля,
// питающее поиск: одобрение и набор навыков.
type SitterService struct {
	search   repository.SitterSearchRepository
	profiles repository.SitterProfileRepository
}

func NewSitterService(
	search repository.SitterSearchRepository,
	profiles repository.SitterProfileRepository,
) *SitterService {
	return &SitterService{search: search, profiles: profiles}
}

// Search — ранжированная постраничная выдача. Count и страница считаются
// по одному и тому же предикату; порядок сортировки — контракт
// (avgRating DESC, reviewCount DESC, experienceYears DESC, hourlyRate ASC).
func (s *SitterService) Search(ctx context.Context, f repository.SearchFilter) (booking.Page[repository.SitterCard], error) {
	f.Page, f.PageSize = booking.NormalizePaging(f.Page, f.PageSize, 100)

	items, total, err := s.search.Search(ctx, f)
	if err != nil {
		return booking.Page[repository.SitterCard]{}, err
	}
	return booking.NewPage(items, f.Page, f.PageSize, int(total)), nil
}

// GetByID — карточка одного профиля через тот же конвейер,
// без требования одобрения.
func (s *SitterService) GetByID(ctx context.Context, id uuid.UUID) (*repository.SitterCard, error) {
	card, err := s.search.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return card, nil
}

// Approve включает либо выключает профиль в выдаче поиска.
func (s *SitterService) Approve(ctx context.Context, profileID uuid.UUID, approve bool) error {
	if err := s.profiles.SetApproved(ctx, profileID, approve); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ErrNotFound
		}
		return err
	}
	return nil
}

// ReplaceSkills полностью заменяет набор навыков профиля.
func (s *SitterService) ReplaceSkills(ctx context.Context, profileID uuid.UUID, names []string) error {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ErrNotFound
		}
		return err
	}
	return s.profiles.ReplaceSkills(ctx, profileID, names)
}

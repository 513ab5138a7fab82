package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
)

// AvailabilityService управляет окнами доступности: строки целиком
// принадлежат профилю ситтера (создание/удаление/список).
type AvailabilityService struct {
	availabilities repository.AvailabilityRepository
	profiles       repository.SitterProfileRepository
}

func NewAvailabilityService(
	availabilities repository.AvailabilityRepository,
	profiles repository.SitterProfileRepository,
) *AvailabilityService {
	return &AvailabilityService{availabilities: availabilities, profiles: profiles}
}

type AddAvailabilityInput struct {
	// Ровно одно из двух.
	DayOfWeek *time.Weekday
	Date      *time.Time

	Start booking.TimeOfDay
	End   booking.TimeOfDay

	IsAvailable bool
}

// Add создаёт окно доступности владеющего профиля.
func (s *AvailabilityService) Add(ctx context.Context, ownerUserID uuid.UUID, in AddAvailabilityInput) (*model.Availability, error) {
	profile, err := s.profiles.GetByUserID(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}

	if _, err := booking.NewInterval(in.Start, in.End); err != nil {
		return nil, err
	}

	// XOR: еженедельное окно либо конкретная дата, не оба и не ничего.
	if (in.DayOfWeek == nil) == (in.Date == nil) {
		return nil, booking.ErrInvalidWindow
	}

	a := &model.Availability{
		ID:              uuid.New(),
		SitterProfileID: profile.ID,
		StartMin:        int(in.Start),
		EndMin:          int(in.End),
		IsAvailable:     in.IsAvailable,
	}
	if in.DayOfWeek != nil {
		d := int(*in.DayOfWeek)
		a.DayOfWeek = &d
	}
	if in.Date != nil {
		d := booking.DateOf(*in.Date)
		a.Date = &d
	}

	if err := s.availabilities.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Remove удаляет окно в рамках владения: чужое окно выглядит как отсутствующее.
func (s *AvailabilityService) Remove(ctx context.Context, ownerUserID, availabilityID uuid.UUID) error {
	profile, err := s.profiles.GetByUserID(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ErrNotFound
		}
		return err
	}

	if err := s.availabilities.Delete(ctx, availabilityID, profile.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ErrNotFound
		}
		return err
	}
	return nil
}

// List возвращает все окна профиля владельца.
func (s *AvailabilityService) List(ctx context.Context, ownerUserID uuid.UUID) ([]model.Availability, error) {
	profile, err := s.profiles.GetByUserID(ctx, ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return s.availabilities.ListByProfile(ctx, profile.ID)
}

// IsAvailable — матчер доступности: true, если хотя бы одно окно профиля
// полностью включает запрошенный интервал на дату.
func (s *AvailabilityService) IsAvailable(ctx context.Context, sitterProfileID uuid.UUID, date time.Time, start, end booking.TimeOfDay) (bool, error) {
	iv, err := booking.NewInterval(start, end)
	if err != nil {
		return false, err
	}
	return s.availabilities.CoversWindow(ctx, sitterProfileID, date, iv)
}

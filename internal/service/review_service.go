package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
)

// ReviewService — отзывы о завершённых бронированиях. Созданный отзыв
// не одобрен по умолчанию и попадает в агрегат рейтинга только после
// решения администратора.
type ReviewService struct {
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
}

func NewReviewService(
	reviews repository.ReviewRepository,
	bookings repository.BookingRepository,
) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings}
}

// Create: только владеющий родитель, только после завершения бронирования,
// не более одного отзыва на бронирование.
func (s *ReviewService) Create(ctx context.Context, parentUserID, bookingID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, booking.ErrInvalidRating
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking: %w", booking.ErrNotFound)
		}
		return nil, err
	}
	if b.ParentUserID != parentUserID {
		return nil, booking.ErrUnauthorized
	}
	if b.Status != model.BookingStatusCompleted {
		return nil, fmt.Errorf("review allowed only after completion: %w", booking.ErrInvalidTransition)
	}

	exists, err := s.reviews.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("review for booking %s: %w", bookingID, booking.ErrAlreadyExists)
	}

	rv := &model.Review{
		ID:              uuid.New(),
		BookingID:       b.ID,
		ParentUserID:    parentUserID,
		SitterProfileID: b.SitterProfileID,
		Rating:          rating,
		Comment:         strings.TrimSpace(comment),
		IsApproved:      false,
		IsHidden:        false,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// CanReview — предпроверка для клиента: те же условия, что и у Create,
// но в виде ответа, а не ошибки.
func (s *ReviewService) CanReview(ctx context.Context, parentUserID, bookingID uuid.UUID) (bool, string, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "booking not found", nil
		}
		return false, "", err
	}
	if b.ParentUserID != parentUserID {
		return false, "not your booking", nil
	}
	if b.Status != model.BookingStatusCompleted {
		return false, "booking not completed yet", nil
	}

	exists, err := s.reviews.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return false, "", err
	}
	if exists {
		return false, "review already submitted", nil
	}
	return true, "", nil
}

// ListMine — отзывы родителя, новые сверху.
func (s *ReviewService) ListMine(ctx context.Context, parentUserID uuid.UUID) ([]model.Review, error) {
	return s.reviews.ListByParent(ctx, parentUserID)
}

// AdminDecision — модерация отзыва: одобрить/скрыть.
func (s *ReviewService) AdminDecision(ctx context.Context, reviewID uuid.UUID, approve, hide bool) error {
	if err := s.reviews.SetModeration(ctx, reviewID, approve, hide); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ErrNotFound
		}
		return err
	}
	return nil
}

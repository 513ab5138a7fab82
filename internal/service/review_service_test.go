package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(
		repository.NewGormReviewRepository(db),
		repository.NewGormBookingRepository(db),
	)
}

func TestReviewService_Create_OnlyAfterCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	parentID := seedUser(t, db, model.UserRoleParent)
	_, profileID := seedSitter(t, db, 20.0)
	id := seedBooking(t, db, parentID, profileID, testDate, 600, 660, model.BookingStatusConfirmed)

	_, err := svc.Create(context.Background(), parentID, id, 5, "great")
	if !errors.Is(err, booking.ErrInvalidTransition) {
		t.Fatalf("got %v, want ErrInvalidTransition for non-completed booking", err)
	}
}

func TestReviewService_Create_HappyPathAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	parentID := seedUser(t, db, model.UserRoleParent)
	_, profileID := seedSitter(t, db, 20.0)
	id := seedBooking(t, db, parentID, profileID, testDate, 600, 660, model.BookingStatusCompleted)

	ctx := context.Background()
	rv, err := svc.Create(ctx, parentID, id, 4, "  good sitter  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rv.Rating != 4 || rv.Comment != "good sitter" {
		t.Fatalf("review = %+v", rv)
	}
	// Свежий отзыв ждёт модерации.
	if rv.IsApproved || rv.IsHidden {
		t.Fatalf("new review must be unapproved and not hidden: %+v", rv)
	}
	if rv.SitterProfileID != profileID {
		t.Fatalf("review profile = %s, want %s", rv.SitterProfileID, profileID)
	}

	// Второй отзыв на то же бронирование запрещён.
	_, err = svc.Create(ctx, parentID, id, 5, "again")
	if !errors.Is(err, booking.ErrAlreadyExists) {
		t.Fatalf("got %v, want ErrAlreadyExists", err)
	}
}

func TestReviewService_Create_WrongParent(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	parentID := seedUser(t, db, model.UserRoleParent)
	strangerID := seedUser(t, db, model.UserRoleParent)
	_, profileID := seedSitter(t, db, 20.0)
	id := seedBooking(t, db, parentID, profileID, testDate, 600, 660, model.BookingStatusCompleted)

	_, err := svc.Create(context.Background(), strangerID, id, 5, "")
	if !errors.Is(err, booking.ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
}

func TestReviewService_Create_RatingBounds(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	parentID := seedUser(t, db, model.UserRoleParent)
	_, profileID := seedSitter(t, db, 20.0)
	id := seedBooking(t, db, parentID, profileID, testDate, 600, 660, model.BookingStatusCompleted)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Create(context.Background(), parentID, id, rating, ""); !errors.Is(err, booking.ErrInvalidRating) {
			t.Fatalf("rating %d: got %v, want ErrInvalidRating", rating, err)
		}
	}
}

func TestReviewService_CanReview(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	parentID := seedUser(t, db, model.UserRoleParent)
	_, profileID := seedSitter(t, db, 20.0)
	id := seedBooking(t, db, parentID, profileID, testDate, 600, 660, model.BookingStatusCompleted)

	ctx := context.Background()
	allowed, reason, err := svc.CanReview(ctx, parentID, id)
	if err != nil {
		t.Fatalf("CanReview: %v", err)
	}
	if !allowed || reason != "" {
		t.Fatalf("CanReview = %v, %q, want true, empty", allowed, reason)
	}

	if _, err := svc.Create(ctx, parentID, id, 5, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	allowed, reason, err = svc.CanReview(ctx, parentID, id)
	if err != nil {
		t.Fatalf("CanReview: %v", err)
	}
	if allowed || reason != "review already submitted" {
		t.Fatalf("CanReview after submit = %v, %q", allowed, reason)
	}
}

func TestReviewService_AdminDecision(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)

	parentID := seedUser(t, db, model.UserRoleParent)
	_, profileID := seedSitter(t, db, 20.0)
	id := seedBooking(t, db, parentID, profileID, testDate, 600, 660, model.BookingStatusCompleted)

	ctx := context.Background()
	rv, err := svc.Create(ctx, parentID, id, 5, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.AdminDecision(ctx, rv.ID, true, false); err != nil {
		t.Fatalf("AdminDecision: %v", err)
	}

	var stored model.Review
	if err := db.First(&stored, "id = ?", rv.ID).Error; err != nil {
		t.Fatalf("load review: %v", err)
	}
	if !stored.IsApproved || stored.IsHidden {
		t.Fatalf("review after moderation: %+v", stored)
	}
}

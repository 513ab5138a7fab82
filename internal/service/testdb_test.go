package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
)

// newTestDB поднимает in-memory sqlite с минимальной схемой под запросы
// сервисов (sqlite-friendly, без postgres-специфичных типов и default-ов).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT,
			contact_phone TEXT,
			role TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE sitter_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			hourly_rate REAL NOT NULL DEFAULT 0,
			experience_years INTEGER NOT NULL DEFAULT 0,
			location_text TEXT,
			latitude REAL,
			longitude REAL,
			is_approved BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE skills (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE sitter_skills (
			sitter_profile_id TEXT NOT NULL,
			skill_id TEXT NOT NULL,
			created_at DATETIME,
			PRIMARY KEY (sitter_profile_id, skill_id)
		);`,
		`CREATE TABLE availabilities (
			id TEXT PRIMARY KEY,
			sitter_profile_id TEXT NOT NULL,
			day_of_week INTEGER,
			date DATETIME,
			start_min INTEGER NOT NULL,
			end_min INTEGER NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME
		);`,
		`CREATE TABLE bookings (
			id TEXT PRIMARY KEY,
			parent_user_id TEXT NOT NULL,
			sitter_profile_id TEXT NOT NULL,
			date DATETIME NOT NULL,
			start_min INTEGER NOT NULL,
			end_min INTEGER NOT NULL,
			service_address TEXT,
			notes TEXT,
			status TEXT NOT NULL,
			total_amount REAL,
			created_at DATETIME,
			updated_at DATETIME,
			completed_at DATETIME
		);`,
		`CREATE TABLE booking_status_histories (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			from_status TEXT NOT NULL,
			to_status TEXT NOT NULL,
			changed_by_user_id TEXT NOT NULL,
			changed_at DATETIME NOT NULL,
			note TEXT
		);`,
		`CREATE TABLE payments (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			amount REAL NOT NULL,
			method TEXT,
			transaction_id TEXT,
			status TEXT NOT NULL,
			created_at DATETIME,
			paid_at DATETIME
		);`,
		`CREATE TABLE attendances (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			check_in_at DATETIME NOT NULL,
			check_out_at DATETIME,
			location TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE reviews (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			parent_user_id TEXT NOT NULL,
			sitter_profile_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			comment TEXT,
			is_approved BOOLEAN NOT NULL DEFAULT 0,
			is_hidden BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME
		);`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			receiver_user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT,
			is_sent BOOLEAN NOT NULL DEFAULT 0,
			sent_at DATETIME,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role model.UserRole) uuid.UUID {
	t.Helper()

	id := uuid.New()
	u := &model.User{
		ID:       id,
		FullName: "user " + id.String()[:8],
		Email:    id.String()[:8] + "@example.com",
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// seedSitter создаёт пользователя-ситтера с одобренным профилем.
func seedSitter(t *testing.T, db *gorm.DB, hourlyRate float64) (userID, profileID uuid.UUID) {
	t.Helper()

	userID = seedUser(t, db, model.UserRoleSitter)
	profileID = uuid.New()
	p := &model.SitterProfile{
		ID:         profileID,
		UserID:     userID,
		HourlyRate: hourlyRate,
		IsApproved: true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed sitter profile: %v", err)
	}
	return userID, profileID
}

func seedBooking(t *testing.T, db *gorm.DB, parentID, profileID uuid.UUID, date time.Time, startMin, endMin int, status model.BookingStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	total := float64(endMin-startMin) / 60.0 * 20.0
	now := time.Now().UTC()
	// sqlite-схема без DEFAULT now(), поэтому заполняем таймстемпы явно.
	b := &model.Booking{
		ID:              id,
		ParentUserID:    parentID,
		SitterProfileID: profileID,
		Date:            booking.DateOf(date),
		StartMin:        startMin,
		EndMin:          endMin,
		Status:          status,
		TotalAmount:     &total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return id
}

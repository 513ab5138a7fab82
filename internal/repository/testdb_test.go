package repository

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/model"
)

// newTestDB — in-memory sqlite со схемой под поисковый конвейер.
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
		`CREATE TABLE attendances (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			check_in_at DATETIME NOT NULL,
			check_out_at DATETIME,
			location TEXT,
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

type profileSeed struct {
	fullName   string
	rate       float64
	expYears   int
	location   string
	isApproved bool
}

func seedProfile(t *testing.T, db *gorm.DB, s profileSeed) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	if err := db.Create(&model.User{
		ID:       userID,
		FullName: s.fullName,
		Email:    userID.String()[:8] + "@example.com",
		Role:     model.UserRoleSitter,
	}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	profileID := uuid.New()
	if err := db.Create(&model.SitterProfile{
		ID:              profileID,
		UserID:          userID,
		HourlyRate:      s.rate,
		ExperienceYears: s.expYears,
		LocationText:    s.location,
		IsApproved:      s.isApproved,
	}).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profileID
}

// seedReview пишет отзыв напрямую, с отдельным фиктивным бронированием
// под uniqueIndex по booking_id.
func seedReview(t *testing.T, db *gorm.DB, profileID uuid.UUID, rating int, approved, hidden bool) {
	t.Helper()

	if err := db.Create(&model.Review{
		ID:              uuid.New(),
		BookingID:       uuid.New(),
		ParentUserID:    uuid.New(),
		SitterProfileID: profileID,
		Rating:          rating,
		IsApproved:      approved,
		IsHidden:        hidden,
	}).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}
}

func seedSkill(t *testing.T, db *gorm.DB, profileID uuid.UUID, name string) {
	t.Helper()

	var skill model.Skill
	err := db.Where("LOWER(name) = ?", name).First(&skill).Error
	if err != nil {
		skill = model.Skill{ID: uuid.New(), Name: name}
		if err := db.Create(&skill).Error; err != nil {
			t.Fatalf("seed skill: %v", err)
		}
	}
	if err := db.Create(&model.SitterSkill{SitterProfileID: profileID, SkillID: skill.ID}).Error; err != nil {
		t.Fatalf("seed sitter skill: %v", err)
	}
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
)

func TestSitterSearch_RankingOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	// Три кандидата: рейтинг 5.0, рейтинг 4.0, без отзывов.
	top := seedProfile(t, db, profileSeed{fullName: "top", rate: 30, expYears: 2, isApproved: true})
	mid := seedProfile(t, db, profileSeed{fullName: "mid", rate: 20, expYears: 8, isApproved: true})
	noReviews := seedProfile(t, db, profileSeed{fullName: "none", rate: 10, expYears: 10, isApproved: true})

	seedReview(t, db, top, 5, true, false)
	seedReview(t, db, mid, 4, true, false)

	items, total, err := repo.Search(context.Background(), SearchFilter{OnlyApproved: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total = %d, items = %d, want 3/3", total, len(items))
	}
	if items[0].SitterProfileID != top || items[1].SitterProfileID != mid || items[2].SitterProfileID != noReviews {
		t.Fatalf("order = %s, %s, %s", items[0].FullName, items[1].FullName, items[2].FullName)
	}
	if items[2].AvgRating != 0 || items[2].ReviewCount != 0 {
		t.Fatalf("profile without reviews must report 0/0, got %v/%d", items[2].AvgRating, items[2].ReviewCount)
	}
}

// При равном рейтинге и количестве отзывов решает стаж, затем ставка.
func TestSitterSearch_TieBreaks(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	junior := seedProfile(t, db, profileSeed{fullName: "junior", rate: 15, expYears: 3, isApproved: true})
	senior := seedProfile(t, db, profileSeed{fullName: "senior", rate: 25, expYears: 5, isApproved: true})
	cheap := seedProfile(t, db, profileSeed{fullName: "cheap", rate: 10, expYears: 3, isApproved: true})

	// Всем одинаковый агрегат: 4 и 5 => avg 4.5, count 2.
	for _, id := range []uuid.UUID{junior, senior, cheap} {
		seedReview(t, db, id, 4, true, false)
		seedReview(t, db, id, 5, true, false)
	}

	items, _, err := repo.Search(context.Background(), SearchFilter{OnlyApproved: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	// senior: стаж 5; далее cheap и junior с одинаковым стажем — дешевле выше.
	if items[0].SitterProfileID != senior {
		t.Fatalf("first = %s, want senior", items[0].FullName)
	}
	if items[1].SitterProfileID != cheap || items[2].SitterProfileID != junior {
		t.Fatalf("order after senior = %s, %s, want cheap, junior", items[1].FullName, items[2].FullName)
	}
}

// В агрегат входят только одобренные и не скрытые отзывы.
func TestSitterSearch_RatingAggregateFiltersModeration(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	id := seedProfile(t, db, profileSeed{fullName: "sitter", rate: 20, expYears: 1, isApproved: true})

	seedReview(t, db, id, 5, true, false)  // учитывается
	seedReview(t, db, id, 1, false, false) // не одобрен
	seedReview(t, db, id, 1, true, true)   // скрыт

	items, _, err := repo.Search(context.Background(), SearchFilter{OnlyApproved: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].AvgRating != 5.0 || items[0].ReviewCount != 1 {
		t.Fatalf("aggregate = %v/%d, want 5.0/1", items[0].AvgRating, items[0].ReviewCount)
	}
}

func TestSitterSearch_OnlyApprovedProfiles(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	seedProfile(t, db, profileSeed{fullName: "approved", rate: 20, isApproved: true})
	hidden := seedProfile(t, db, profileSeed{fullName: "pending", rate: 20, isApproved: false})

	items, total, err := repo.Search(context.Background(), SearchFilter{OnlyApproved: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].FullName != "approved" {
		t.Fatalf("got %d items (total %d)", len(items), total)
	}

	// GetByID — без требования одобрения.
	card, err := repo.GetByID(context.Background(), hidden)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if card.IsApproved {
		t.Fatalf("pending profile must be visible via GetByID with is_approved=false")
	}
}

// AND-семантика по навыкам: кандидат обязан иметь каждый запрошенный навык.
func TestSitterSearch_SkillContainment(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	both := seedProfile(t, db, profileSeed{fullName: "both", rate: 20, isApproved: true})
	onlyOne := seedProfile(t, db, profileSeed{fullName: "one", rate: 20, isApproved: true})

	seedSkill(t, db, both, "first aid")
	seedSkill(t, db, both, "cooking")
	seedSkill(t, db, onlyOne, "cooking")

	items, total, err := repo.Search(context.Background(), SearchFilter{
		OnlyApproved: true,
		Skills:       []string{"First Aid", "COOKING"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].SitterProfileID != both {
		t.Fatalf("skill containment: got %d items (total %d)", len(items), total)
	}

	// Дубликаты и пробелы в запросе не меняют семантику.
	items, _, err = repo.Search(context.Background(), SearchFilter{
		OnlyApproved: true,
		Skills:       []string{" cooking ", "cooking"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("single deduped skill must match both profiles, got %d", len(items))
	}
}

func TestSitterSearch_AvailabilityWindowFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	free := seedProfile(t, db, profileSeed{fullName: "free", rate: 20, isApproved: true})
	busy := seedProfile(t, db, profileSeed{fullName: "busy", rate: 20, isApproved: true})

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	weekday := int(time.Monday)

	// free: еженедельное окно пн 09:00-18:00; busy: только 13:00-14:00.
	if err := db.Create(&model.Availability{
		ID: uuid.New(), SitterProfileID: free,
		DayOfWeek: &weekday, StartMin: 540, EndMin: 1080, IsAvailable: true,
	}).Error; err != nil {
		t.Fatalf("seed availability: %v", err)
	}
	if err := db.Create(&model.Availability{
		ID: uuid.New(), SitterProfileID: busy,
		DayOfWeek: &weekday, StartMin: 780, EndMin: 840, IsAvailable: true,
	}).Error; err != nil {
		t.Fatalf("seed availability: %v", err)
	}

	start, end := booking.TimeOfDay(600), booking.TimeOfDay(720)
	items, total, err := repo.Search(context.Background(), SearchFilter{
		OnlyApproved: true,
		Date:         &monday,
		Start:        &start,
		End:          &end,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].SitterProfileID != free {
		t.Fatalf("availability filter: got %d items (total %d)", len(items), total)
	}

	// Без полного окна (нет start/end) фильтр не применяется.
	items, _, err = repo.Search(context.Background(), SearchFilter{
		OnlyApproved: true,
		Date:         &monday,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("partial window must not filter, got %d items", len(items))
	}
}

func TestSitterSearch_ScalarFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	seedProfile(t, db, profileSeed{fullName: "a", rate: 10, expYears: 1, location: "Springfield North", isApproved: true})
	match := seedProfile(t, db, profileSeed{fullName: "b", rate: 20, expYears: 5, location: "springfield center", isApproved: true})
	seedProfile(t, db, profileSeed{fullName: "c", rate: 40, expYears: 7, location: "Shelbyville", isApproved: true})

	minRate, maxRate := 15.0, 30.0
	minExp := 3
	items, total, err := repo.Search(context.Background(), SearchFilter{
		OnlyApproved:       true,
		Location:           "SPRINGFIELD",
		MinRate:            &minRate,
		MaxRate:            &maxRate,
		MinExperienceYears: &minExp,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].SitterProfileID != match {
		t.Fatalf("scalar filters: got %d items (total %d)", len(items), total)
	}
}

func TestSitterSearch_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	// 5 профилей с убывающим стажем — порядок детерминирован.
	for i := 0; i < 5; i++ {
		seedProfile(t, db, profileSeed{fullName: "sitter", rate: 20, expYears: 50 - i, isApproved: true})
	}

	first, total, err := repo.Search(context.Background(), SearchFilter{OnlyApproved: true, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 5 || len(first) != 2 {
		t.Fatalf("page 1: total = %d, items = %d, want 5/2", total, len(first))
	}

	last, total, err := repo.Search(context.Background(), SearchFilter{OnlyApproved: true, Page: 3, PageSize: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 5 || len(last) != 1 {
		t.Fatalf("page 3: total = %d, items = %d, want 5/1", total, len(last))
	}
	if first[0].ExperienceYears != 50 || last[0].ExperienceYears != 46 {
		t.Fatalf("pages out of order: first exp %d, last exp %d", first[0].ExperienceYears, last[0].ExperienceYears)
	}

	// Страницы не пересекаются.
	seen := map[uuid.UUID]bool{}
	for _, it := range first {
		seen[it.SitterProfileID] = true
	}
	for _, it := range last {
		if seen[it.SitterProfileID] {
			t.Fatalf("profile %s appears on two pages", it.SitterProfileID)
		}
	}
}

func TestSitterSearch_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSitterSearchRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
}

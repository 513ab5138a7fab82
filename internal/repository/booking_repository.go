package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
)

type BookingRepository interface {
	// Создать новое бронирование.
	Create(ctx context.Context, b *model.Booking) error
	// Получить бронирование по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Как GetByID, но с блокировкой строки до конца транзакции.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Получить бронирование в рамках владения конкретным профилем ситтера.
	GetForSitter(ctx context.Context, id, sitterProfileID uuid.UUID) (*model.Booking, error)
	// Как GetForSitter, но с блокировкой строки до конца транзакции.
	GetForSitterForUpdate(ctx context.Context, id, sitterProfileID uuid.UUID) (*model.Booking, error)
	// Сериализовать конкурирующие проверки конфликтов по паре
	// (профиль, дата) до конца текущей транзакции.
	LockProviderDay(ctx context.Context, sitterProfileID uuid.UUID, date time.Time) error
	// Сохранить изменённые поля бронирования.
	Save(ctx context.Context, b *model.Booking) error
	// Есть ли пересечение с активным бронированием провайдера на дату.
	HasConflict(ctx context.Context, sitterProfileID uuid.UUID, date time.Time, iv booking.Interval, excludeID *uuid.UUID) (bool, error)
	// Добавить запись журнала переходов (append-only).
	AppendHistory(ctx context.Context, h *model.BookingStatusHistory) error
	// Журнал переходов, новые сверху.
	ListHistory(ctx context.Context, bookingID uuid.UUID) ([]model.BookingStatusHistory, error)
	// Бронирования родителя, новые сверху, с опциональным фильтром по статусу.
	ListForParent(ctx context.Context, parentUserID uuid.UUID, status *model.BookingStatus, page, pageSize int) ([]model.Booking, int64, error)
	// Бронирования профиля ситтера, новые сверху.
	ListForSitter(ctx context.Context, sitterProfileID uuid.UUID, status *model.BookingStatus, page, pageSize int) ([]model.Booking, int64, error)
}

// supportsRowLocks: SELECT ... FOR UPDATE и advisory-замки есть только у
// postgres; sqlite однописательный, там блокировки не нужны и не поддержаны.
func supportsRowLocks(dialect string) bool {
	return dialect == "postgres"
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	if err := r.locked(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetForSitter(ctx context.Context, id, sitterProfileID uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		First(&b, "id = ? AND sitter_profile_id = ?", id, sitterProfileID).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetForSitterForUpdate(ctx context.Context, id, sitterProfileID uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.locked(ctx).
		First(&b, "id = ? AND sitter_profile_id = ?", id, sitterProfileID).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// locked навешивает SELECT ... FOR UPDATE там, где диалект его понимает.
func (r *GormBookingRepository) locked(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	if supportsRowLocks(r.db.Dialector.Name()) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// LockProviderDay берёт advisory-замок уровня транзакции на пару
// (профиль, дата): два конкурирующих Accept на один день провайдера
// выполняют проверку конфликтов по очереди. Замок снимается при
// commit/rollback. Вне postgres — no-op.
func (r *GormBookingRepository) LockProviderDay(ctx context.Context, sitterProfileID uuid.UUID, date time.Time) error {
	if !supportsRowLocks(r.db.Dialector.Name()) {
		return nil
	}
	key := sitterProfileID.String() + ":" + date.UTC().Format("2006-01-02")
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *GormBookingRepository) Save(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// HasConflict учитывает только pending/accepted/confirmed — терминальные
// статусы не блокируют слот. Пересечение полуоткрытое: касание границ
// конфликтом не считается (start < other_end AND end > other_start).
func (r *GormBookingRepository) HasConflict(
	ctx context.Context,
	sitterProfileID uuid.UUID,
	date time.Time,
	iv booking.Interval,
	excludeID *uuid.UUID,
) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("sitter_profile_id = ?", sitterProfileID).
		Where("date = ?", booking.DateOf(date)).
		Where("status IN ?", booking.ActiveStatuses()).
		Where("start_min < ? AND end_min > ?", int(iv.End), int(iv.Start))

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBookingRepository) AppendHistory(ctx context.Context, h *model.BookingStatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *GormBookingRepository) ListHistory(ctx context.Context, bookingID uuid.UUID) ([]model.BookingStatusHistory, error) {
	var items []model.BookingStatusHistory
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("changed_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormBookingRepository) ListForParent(
	ctx context.Context,
	parentUserID uuid.UUID,
	status *model.BookingStatus,
	page, pageSize int,
) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("parent_user_id = ?", parentUserID)
	return r.pageBookings(q, status, page, pageSize)
}

func (r *GormBookingRepository) ListForSitter(
	ctx context.Context,
	sitterProfileID uuid.UUID,
	status *model.BookingStatus,
	page, pageSize int,
) ([]model.Booking, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("sitter_profile_id = ?", sitterProfileID)
	return r.pageBookings(q, status, page, pageSize)
}

func (r *GormBookingRepository) pageBookings(
	q *gorm.DB,
	status *model.BookingStatus,
	page, pageSize int,
) ([]model.Booking, int64, error) {
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Booking
	err := q.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

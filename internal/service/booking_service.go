package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smartsitter/core/internal/booking"
	"github.com/smartsitter/core/internal/model"
	"github.com/smartsitter/core/internal/repository"
)

// BookingService — оркестратор жизненного цикла бронирования: создание,
// переходы по таблице статусов, перенос, синхронизация платежа.
//
// Каждая мутация выполняется в одной транзакции: чтение текущего статуса,
// валидация и запись нового — одна атомарная единица на стороне хранилища.
// Уведомления отправляются после коммита и в транзакции не участвуют.
type BookingService struct {
	db       *gorm.DB
	profiles repository.SitterProfileRepository
	notifier Notifier
	log      *zap.Logger
}

func NewBookingService(
	db *gorm.DB,
	profiles repository.SitterProfileRepository,
	notifier Notifier,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		db:       db,
		profiles: profiles,
		notifier: notifier,
		log:      log,
	}
}

type CreateBookingInput struct {
	ParentUserID    uuid.UUID
	SitterProfileID uuid.UUID
	Date            time.Time
	Start           booking.TimeOfDay
	End             booking.TimeOfDay
	ServiceAddress  string
	Notes           string
}

// Create создаёт бронирование в статусе pending и платёж-зеркало в статусе
// pending. Стоимость фиксируется один раз: часы × почасовая ставка профиля.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	profile, err := s.profiles.GetByID(ctx, in.SitterProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sitter profile: %w", booking.ErrNotFound)
		}
		return nil, fmt.Errorf("load sitter profile: %w", err)
	}
	if !profile.IsApproved {
		return nil, booking.ErrUnapproved
	}

	iv, err := booking.NewInterval(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	total := iv.Hours() * profile.HourlyRate

	b := &model.Booking{
		ID:              uuid.New(),
		ParentUserID:    in.ParentUserID,
		SitterProfileID: profile.ID,
		Date:            booking.DateOf(in.Date),
		StartMin:        int(iv.Start),
		EndMin:          int(iv.End),
		ServiceAddress:  in.ServiceAddress,
		Notes:           in.Notes,
		Status:          model.BookingStatusPending,
		TotalAmount:     &total,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormBookingRepository(tx).Create(ctx, b); err != nil {
			return err
		}
		return repository.NewGormPaymentRepository(tx).Create(ctx, &model.Payment{
			ID:        uuid.New(),
			BookingID: b.ID,
			Amount:    total,
			Status:    model.PaymentStatusPending,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	return b, nil
}

// GetByID возвращает бронирование без проверки владения (для внутренних
// нужд и административных сценариев).
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	b, err := repository.NewGormBookingRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// History — журнал переходов бронирования, новые сверху.
func (s *BookingService) History(ctx context.Context, bookingID uuid.UUID) ([]model.BookingStatusHistory, error) {
	return repository.NewGormBookingRepository(s.db).ListHistory(ctx, bookingID)
}

// Accept: провайдер принимает pending-бронирование. Перед переходом конфликт
// проверяется повторно (исключая само бронирование) — закрывает гонку между
// параллельными accept по пересекающимся интервалам. Строка блокируется
// FOR UPDATE, а день провайдера — advisory-замком: check-then-act
// выполняется под замком до самого коммита.
func (s *BookingService) Accept(ctx context.Context, bookingID, sitterProfileID uuid.UUID, actorUserID uuid.UUID, note string) error {
	var b *model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGormBookingRepository(tx)

		var err error
		b, err = repo.GetForSitterForUpdate(ctx, bookingID, sitterProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}
		if b.Status != model.BookingStatusPending {
			return booking.NewTransitionError(b.Status, model.BookingStatusAccepted)
		}

		if err := repo.LockProviderDay(ctx, b.SitterProfileID, time.Time(b.Date)); err != nil {
			return fmt.Errorf("lock provider day: %w", err)
		}

		iv := booking.Interval{Start: booking.TimeOfDay(b.StartMin), End: booking.TimeOfDay(b.EndMin)}
		conflict, err := repo.HasConflict(ctx, b.SitterProfileID, time.Time(b.Date), iv, &b.ID)
		if err != nil {
			return fmt.Errorf("conflict check: %w", err)
		}
		if conflict {
			return booking.ErrConflict
		}

		return s.transition(ctx, repo, b, model.BookingStatusAccepted, actorUserID, note)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, b.ParentUserID, "Booking Accepted",
		fmt.Sprintf("Your booking request %s was accepted.", b.ID))
	return nil
}

// Reject: провайдер отклоняет pending-бронирование.
func (s *BookingService) Reject(ctx context.Context, bookingID, sitterProfileID uuid.UUID, actorUserID uuid.UUID, note string) error {
	b, err := s.sitterTransition(ctx, bookingID, sitterProfileID, actorUserID, note,
		model.BookingStatusPending, model.BookingStatusRejected)
	if err != nil {
		return err
	}
	s.notify(ctx, b.ParentUserID, "Booking Rejected",
		fmt.Sprintf("Your booking request %s was rejected.", b.ID))
	return nil
}

// Confirm: провайдер подтверждает accepted-бронирование.
func (s *BookingService) Confirm(ctx context.Context, bookingID, sitterProfileID uuid.UUID, actorUserID uuid.UUID, note string) error {
	b, err := s.sitterTransition(ctx, bookingID, sitterProfileID, actorUserID, note,
		model.BookingStatusAccepted, model.BookingStatusConfirmed)
	if err != nil {
		return err
	}
	s.notify(ctx, b.ParentUserID, "Booking Confirmed",
		fmt.Sprintf("Booking %s confirmed.", b.ID))
	return nil
}

// Complete: провайдер завершает confirmed-бронирование; фиксируется
// CompletedAt, после чего родителю разрешён отзыв.
func (s *BookingService) Complete(ctx context.Context, bookingID, sitterProfileID uuid.UUID, actorUserID uuid.UUID, note string) error {
	var b *model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGormBookingRepository(tx)

		var err error
		b, err = repo.GetForSitterForUpdate(ctx, bookingID, sitterProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}
		if b.Status != model.BookingStatusConfirmed {
			return booking.NewTransitionError(b.Status, model.BookingStatusCompleted)
		}

		now := time.Now().UTC()
		b.CompletedAt = &now
		return s.transition(ctx, repo, b, model.BookingStatusCompleted, actorUserID, note)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, b.ParentUserID, "Booking Completed",
		fmt.Sprintf("Booking %s completed. You can leave a review now.", b.ID))
	return nil
}

// Cancel доступен владеющему родителю либо владеющему провайдеру.
// Отмена уже отменённого — идемпотентный no-op. Завершённое бронирование
// отменить нельзя.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorUserID uuid.UUID, reason string) error {
	var (
		b            *model.Booking
		sitterUserID uuid.UUID
		noop         bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGormBookingRepository(tx)

		var err error
		b, err = repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}

		profile, err := repository.NewGormSitterProfileRepository(tx).GetByID(ctx, b.SitterProfileID)
		if err != nil {
			return fmt.Errorf("load sitter profile: %w", err)
		}
		sitterUserID = profile.UserID

		isParent := b.ParentUserID == actorUserID
		isSitter := profile.UserID == actorUserID
		if !isParent && !isSitter {
			return booking.ErrUnauthorized
		}

		if b.Status == model.BookingStatusCompleted {
			return booking.NewTransitionError(b.Status, model.BookingStatusCancelled)
		}
		if b.Status == model.BookingStatusCancelled {
			noop = true
			return nil
		}

		return s.transition(ctx, repo, b, model.BookingStatusCancelled, actorUserID, reason)
	})
	if err != nil || noop {
		return err
	}

	msg := fmt.Sprintf("Booking %s cancelled.", b.ID)
	s.notify(ctx, b.ParentUserID, "Booking Cancelled", msg)
	s.notify(ctx, sitterUserID, "Booking Cancelled", msg)
	return nil
}

// Reschedule доступен только владеющему родителю. Новый слот обязан пройти
// матчер доступности и проверку конфликтов (исключая само бронирование),
// после чего бронирование возвращается в pending — заново через одобрение.
func (s *BookingService) Reschedule(ctx context.Context, bookingID, parentUserID uuid.UUID, date time.Time, start, end booking.TimeOfDay, note string) error {
	var (
		b            *model.Booking
		sitterUserID uuid.UUID
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGormBookingRepository(tx)

		var err error
		b, err = repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}
		if b.ParentUserID != parentUserID {
			return booking.ErrUnauthorized
		}

		switch b.Status {
		case model.BookingStatusCompleted, model.BookingStatusCancelled, model.BookingStatusRejected:
			return booking.NewTransitionError(b.Status, model.BookingStatusPending)
		}

		iv, err := booking.NewInterval(start, end)
		if err != nil {
			return err
		}

		if err := repo.LockProviderDay(ctx, b.SitterProfileID, date); err != nil {
			return fmt.Errorf("lock provider day: %w", err)
		}

		covered, err := repository.NewGormAvailabilityRepository(tx).
			CoversWindow(ctx, b.SitterProfileID, date, iv)
		if err != nil {
			return fmt.Errorf("availability check: %w", err)
		}
		if !covered {
			return fmt.Errorf("sitter is not available at that time: %w", booking.ErrConflict)
		}

		conflict, err := repo.HasConflict(ctx, b.SitterProfileID, date, iv, &b.ID)
		if err != nil {
			return fmt.Errorf("conflict check: %w", err)
		}
		if conflict {
			return booking.ErrConflict
		}

		profile, err := repository.NewGormSitterProfileRepository(tx).GetByID(ctx, b.SitterProfileID)
		if err != nil {
			return fmt.Errorf("load sitter profile: %w", err)
		}
		sitterUserID = profile.UserID

		b.Date = booking.DateOf(date)
		b.StartMin = int(iv.Start)
		b.EndMin = int(iv.End)

		if note == "" {
			note = "Rescheduled"
		}
		return s.transition(ctx, repo, b, model.BookingStatusPending, parentUserID, note)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, sitterUserID, "Booking Rescheduled",
		fmt.Sprintf("Booking %s rescheduled to %s (%s-%s).",
			b.ID, time.Time(b.Date).Format("2006-01-02"),
			booking.TimeOfDay(b.StartMin), booking.TimeOfDay(b.EndMin)))
	return nil
}

// AdminSetStatus применяет произвольный переход по общей таблице —
// без ролевых предусловий, но легальность перехода обязательна.
func (s *BookingService) AdminSetStatus(ctx context.Context, bookingID uuid.UUID, toStatus, note string, adminID uuid.UUID) error {
	to, ok := booking.ParseStatus(toStatus)
	if !ok {
		return fmt.Errorf("unknown status %q: %w", toStatus, booking.ErrInvalidTransition)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGormBookingRepository(tx)

		b, err := repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}

		if !booking.CanTransition(b.Status, to) {
			return booking.NewTransitionError(b.Status, to)
		}

		if to == model.BookingStatusCompleted && b.CompletedAt == nil {
			now := time.Now().UTC()
			b.CompletedAt = &now
		}
		return s.transition(ctx, repo, b, to, adminID, note)
	})
}

// MarkPaid синхронизирует платёж с бронированием: сумма ВСЕГДА
// перезаписывается текущим TotalAmount, устаревшее значение в платёжной
// записи не считается источником истины.
func (s *BookingService) MarkPaid(ctx context.Context, bookingID uuid.UUID, method, transactionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := repository.NewGormBookingRepository(tx).GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}
		if b.TotalAmount == nil || *b.TotalAmount <= 0 {
			return booking.ErrInvalidAmount
		}

		payments := repository.NewGormPaymentRepository(tx)

		p, err := payments.GetByBookingID(ctx, bookingID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			p = &model.Payment{
				ID:        uuid.New(),
				BookingID: bookingID,
				Status:    model.PaymentStatusPending,
			}
			if err := payments.Create(ctx, p); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		p.Amount = *b.TotalAmount
		p.Method = method
		p.TransactionID = transactionID
		p.Status = model.PaymentStatusPaid
		p.PaidAt = &now

		return payments.Save(ctx, p)
	})
}

// CheckIn отмечает фактическое начало визита по бронированию. Повторный
// check-in идемпотентен: возвращается уже существующая запись и флаг
// alreadyCheckedIn=true, новая не создаётся.
func (s *BookingService) CheckIn(ctx context.Context, bookingID uuid.UUID, location string) (*model.Attendance, bool, error) {
	var (
		a       *model.Attendance
		already bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewGormBookingRepository(tx).GetByIDForUpdate(ctx, bookingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}

		attendances := repository.NewGormAttendanceRepository(tx)

		existing, err := attendances.GetByBookingID(ctx, bookingID)
		if err == nil {
			a = existing
			already = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		a = &model.Attendance{
			ID:        uuid.New(),
			BookingID: bookingID,
			CheckInAt: time.Now().UTC(),
			Location:  location,
		}
		return attendances.Create(ctx, a)
	})
	if err != nil {
		return nil, false, err
	}
	return a, already, nil
}

// CheckOut закрывает визит: фиксирует время выхода в существующей записи
// явки. Без предшествующего check-in возвращается ErrNotFound.
func (s *BookingService) CheckOut(ctx context.Context, bookingID uuid.UUID) (*model.Attendance, error) {
	var a *model.Attendance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attendances := repository.NewGormAttendanceRepository(tx)

		var err error
		a, err = attendances.GetByBookingID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("not checked in: %w", booking.ErrNotFound)
			}
			return err
		}

		now := time.Now().UTC()
		a.CheckOutAt = &now
		return attendances.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// листинги «мои бронирования» не раздают чужие страницы: pageSize
// ограничен сотней, сортировка — новые сверху.
const maxBookingsPageSize = 100

// ListForParent — бронирования родителя, с опциональным фильтром по статусу.
func (s *BookingService) ListForParent(ctx context.Context, parentUserID uuid.UUID, status string, page, pageSize int) (booking.Page[model.Booking], error) {
	st, err := optionalStatus(status)
	if err != nil {
		return booking.Page[model.Booking]{}, err
	}
	page, pageSize = booking.NormalizePaging(page, pageSize, maxBookingsPageSize)

	items, total, err := repository.NewGormBookingRepository(s.db).
		ListForParent(ctx, parentUserID, st, page, pageSize)
	if err != nil {
		return booking.Page[model.Booking]{}, err
	}
	return booking.NewPage(items, page, pageSize, int(total)), nil
}

// ListForSitter — бронирования по профилю ситтера пользователя. Если у
// пользователя нет профиля — ErrNotFound.
func (s *BookingService) ListForSitter(ctx context.Context, sitterUserID uuid.UUID, status string, page, pageSize int) (booking.Page[model.Booking], error) {
	profile, err := s.profiles.GetByUserID(ctx, sitterUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Page[model.Booking]{}, fmt.Errorf("sitter profile: %w", booking.ErrNotFound)
		}
		return booking.Page[model.Booking]{}, err
	}

	st, err := optionalStatus(status)
	if err != nil {
		return booking.Page[model.Booking]{}, err
	}
	page, pageSize = booking.NormalizePaging(page, pageSize, maxBookingsPageSize)

	items, total, err := repository.NewGormBookingRepository(s.db).
		ListForSitter(ctx, profile.ID, st, page, pageSize)
	if err != nil {
		return booking.Page[model.Booking]{}, err
	}
	return booking.NewPage(items, page, pageSize, int(total)), nil
}

// optionalStatus: пустая строка — без фильтра, иначе статус обязан быть
// известным.
func optionalStatus(raw string) (*model.BookingStatus, error) {
	if raw == "" {
		return nil, nil
	}
	st, ok := booking.ParseStatus(raw)
	if !ok {
		return nil, fmt.Errorf("unknown status %q: %w", raw, booking.ErrInvalidTransition)
	}
	return &st, nil
}

// sitterTransition — общий путь reject/confirm: загрузка в рамках владения
// профилем, проверка требуемого текущего статуса, переход, журнал.
func (s *BookingService) sitterTransition(
	ctx context.Context,
	bookingID, sitterProfileID, actorUserID uuid.UUID,
	note string,
	required, to model.BookingStatus,
) (*model.Booking, error) {
	var b *model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGormBookingRepository(tx)

		var err error
		b, err = repo.GetForSitterForUpdate(ctx, bookingID, sitterProfileID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}
		if b.Status != required {
			return booking.NewTransitionError(b.Status, to)
		}
		return s.transition(ctx, repo, b, to, actorUserID, note)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// transition применяет переход и добавляет запись журнала. Вызывается
// только внутри транзакции.
func (s *BookingService) transition(
	ctx context.Context,
	repo repository.BookingRepository,
	b *model.Booking,
	to model.BookingStatus,
	actorUserID uuid.UUID,
	note string,
) error {
	from := b.Status
	b.Status = to

	if err := repo.Save(ctx, b); err != nil {
		return fmt.Errorf("save booking: %w", err)
	}

	return repo.AppendHistory(ctx, &model.BookingStatusHistory{
		ID:              uuid.New(),
		BookingID:       b.ID,
		FromStatus:      from,
		ToStatus:        to,
		ChangedByUserID: actorUserID,
		ChangedAt:       time.Now().UTC(),
		Note:            note,
	})
}

// notify — fire-and-forget: ошибка доставки логируется и не влияет на
// результат операции.
func (s *BookingService) notify(ctx context.Context, receiverUserID uuid.UUID, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, receiverUserID, title, message); err != nil {
		s.log.Warn("notification failed",
			zap.String("receiver", receiverUserID.String()),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}
